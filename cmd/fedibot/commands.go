// ABOUTME: Sample commands shipped with the fedibot binary: ping, echo and roll-dice
// ABOUTME: Each replies in-thread through the bot's reply rules

package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/mauromedda/fedibot-go/internal/bot"
	"github.com/mauromedda/fedibot-go/internal/fediverse"
)

const (
	maxDice  = 100
	maxSides = 1000
)

var errBadDice = errors.New("dice must look like 2d6")

func registerCommands(b *bot.Bot) {
	b.Command("ping", "Replies with pong.", func(ctx context.Context, n *fediverse.Notification, _ []string) error {
		_, err := b.Reply(ctx, n, "pong")
		return err
	})

	b.Command("echo", `Repeats its arguments back.

	Quote an argument to keep its spaces:
	@{username} echo "hello world" again
	`, func(ctx context.Context, n *fediverse.Notification, args []string) error {
		if len(args) == 0 {
			_, err := b.Reply(ctx, n, "Nothing to echo.")
			return err
		}
		_, err := b.Reply(ctx, n, strings.Join(args, " "))
		return err
	})

	b.Command("roll_dice", `Rolls dice, one d6 unless told otherwise.

	Usage: @{username} roll-dice [NdM]
	For example, @{username} roll-dice 3d20
	`, func(ctx context.Context, n *fediverse.Notification, args []string) error {
		spec := "1d6"
		if len(args) > 0 {
			spec = args[0]
		}
		count, sides, err := parseDice(spec)
		if err != nil {
			_, rerr := b.Reply(ctx, n, err.Error())
			return rerr
		}
		_, err = b.Reply(ctx, n, formatRolls(roll(count, sides, rand.IntN)))
		return err
	})
}

// parseDice reads "NdM" (N may be omitted) into a die count and size.
func parseDice(spec string) (count, sides int, err error) {
	n, m, ok := strings.Cut(strings.ToLower(strings.TrimSpace(spec)), "d")
	if !ok {
		return 0, 0, errBadDice
	}
	count = 1
	if n != "" {
		if count, err = strconv.Atoi(n); err != nil {
			return 0, 0, errBadDice
		}
	}
	if sides, err = strconv.Atoi(m); err != nil {
		return 0, 0, errBadDice
	}
	if count < 1 || count > maxDice {
		return 0, 0, fmt.Errorf("roll between 1 and %d dice", maxDice)
	}
	if sides < 2 || sides > maxSides {
		return 0, 0, fmt.Errorf("dice need between 2 and %d sides", maxSides)
	}
	return count, sides, nil
}

// roll throws count dice; intN returns a value in [0, n).
func roll(count, sides int, intN func(int) int) []int {
	rolls := make([]int, count)
	for i := range rolls {
		rolls[i] = intN(sides) + 1
	}
	return rolls
}

func formatRolls(rolls []int) string {
	if len(rolls) == 1 {
		return strconv.Itoa(rolls[0])
	}
	parts := make([]string, len(rolls))
	total := 0
	for i, r := range rolls {
		parts[i] = strconv.Itoa(r)
		total += r
	}
	return strings.Join(parts, " + ") + " = " + strconv.Itoa(total)
}
