package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/lox/holdem-ladder/internal/cards"
	"github.com/lox/holdem-ladder/internal/evaluator"
	"github.com/lox/holdem-ladder/internal/handodds"
)

// OddsCmd previews starting hands from the odds table, and with a full
// board names the made hand.
type OddsCmd struct {
	Hands     []string `arg:"" help:"Starting hands, e.g. 'AsKd' 'QhQc'"`
	Board     string   `short:"b" help:"Five board cards, e.g. 'Td7s8h2c3d'"`
	Evaluator string   `short:"e" help:"Evaluator backend for --board (default from config)"`
}

func (o *OddsCmd) Run(cli *CLI) error {
	var board []cards.Card
	var eval evaluator.Evaluator
	if o.Board != "" {
		var err error
		if board, err = cards.ParseCards(o.Board); err != nil {
			return fmt.Errorf("board: %w", err)
		}
		if len(board) != 5 {
			return fmt.Errorf("board needs 5 cards, got %d", len(board))
		}
		name := o.Evaluator
		if name == "" {
			cfg, err := cli.loadConfig()
			if err != nil {
				return err
			}
			name = cfg.Evaluator
		}
		if eval, err = evaluator.New(name); err != nil {
			return err
		}
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := "Hand\tNotation\tWin %\tMultiplier\tStrength"
	if eval != nil {
		header += "\tMade hand"
	}
	fmt.Fprintln(tw, header)

	for _, arg := range o.Hands {
		hole, err := cards.ParseCards(arg)
		if err != nil {
			return fmt.Errorf("hand %q: %w", arg, err)
		}
		if len(hole) != 2 {
			return fmt.Errorf("hand %q needs 2 cards, got %d", arg, len(hole))
		}
		notation := handodds.NotationOf(hole)
		_, known := handodds.Lookup(notation)
		win := fmt.Sprintf("%.1f", handodds.WinProbability(notation)*100)
		if !known {
			win += "*"
		}
		line := fmt.Sprintf("%s\t%s\t%s\t%.2fx\t%d",
			cards.Join(hole), notation, win, handodds.Multiplier(notation), handodds.Strength(hole))
		if eval != nil {
			rank, err := eval.Rank(append(append([]cards.Card{}, hole...), board...))
			if err != nil {
				return fmt.Errorf("hand %q: %w", arg, err)
			}
			line += "\t" + rank.Description
		}
		fmt.Fprintln(tw, line)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if eval != nil {
		fmt.Printf("\nBoard %s (%s)\n", cards.Join(board), eval.Name())
	}
	return nil
}
