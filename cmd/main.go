package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
	"github.com/spf13/pflag"

	"github.com/luca-patrignani/heads-up-poker/config"
	"github.com/luca-patrignani/heads-up-poker/domain/deck"
	"github.com/luca-patrignani/heads-up-poker/domain/poker"
	"github.com/luca-patrignani/heads-up-poker/game"
	"github.com/luca-patrignani/heads-up-poker/ledger"
)

func main() {
	fs := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	config.Flags(fs)
	_ = fs.Parse(os.Args[1:])
	path, _ := fs.GetString("config")

	cfg, err := config.Load(path, fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[0], err)
		os.Exit(2)
	}
	logger, err := newLogger(cfg.LogLevel, !cfg.Auto)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[0], err)
		os.Exit(2)
	}

	if !cfg.Auto {
		pterm.DefaultBigText.WithLetters(
			putils.LettersFromStringWithStyle("H", pterm.FgRed.ToStyle()),
			putils.LettersFromStringWithStyle("eads ", pterm.FgDarkGray.ToStyle()),
			putils.LettersFromStringWithStyle("U", pterm.FgRed.ToStyle()),
			putils.LettersFromStringWithStyle("p", pterm.FgDarkGray.ToStyle()),
		).Render()
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("match failed", "error", err)
		os.Exit(1)
	}
}

// newTable seats both players of a match described by cfg. Only Alice
// records the transcript: one chain holding both views would see every
// message twice.
func newTable(cfg config.Config, logger *slog.Logger) (*table, error) {
	aliceFunds, bobFunds, bb := poker.NewMoney(cfg.AliceFunds), poker.NewMoney(cfg.BobFunds), poker.NewMoney(cfg.BigBlind)
	var players [2]*game.Player
	for _, me := range []poker.PlayerID{poker.Alice, poker.Bob} {
		var d deck.Dealer
		switch cfg.Dealer {
		case "trusted":
			d = deck.NewSeededTrustedDeck(int(me), cfg.Seed)
		default:
			d = deck.NewDeck(int(me))
		}
		opts := []game.Option{game.WithDealer(d), game.WithLogger(logger)}
		if cfg.AlwaysReveal {
			opts = append(opts, game.WithAlwaysReveal())
		}
		if me == poker.Alice {
			opts = append(opts, game.WithLedger(ledger.NewBlockchain("")))
		}
		p, err := game.NewPlayer(me, aliceFunds, bobFunds, bb, opts...)
		if err != nil {
			return nil, err
		}
		players[me] = p
	}
	return &table{
		players:  players,
		compress: cfg.Compress,
		logger:   logger,
	}, nil
}

func run(cfg config.Config, logger *slog.Logger) error {
	t, err := newTable(cfg, logger)
	if err != nil {
		return err
	}
	alice := t.players[poker.Alice]
	logger.Info("new match", "match_id", alice.MatchID().String(), "dealer", cfg.Dealer)

	choose := botChooser
	if cfg.Auto {
		t.maxRejects = 1
	} else {
		choose = humanChooser
		t.onBet = func(p *game.Player, a poker.ActionType, amount poker.Money) {
			printState(p, getActionPanel(p, a, amount))
		}
		t.onReject = func(_ *game.Player, err error) {
			pterm.Error.Printfln("Invalid action: %s", err.Error())
		}
	}

	spinner, _ := pterm.DefaultSpinner.WithRemoveWhenDone(cfg.Auto).Start("Shuffling the cards ...")
	if err := t.play(choose); err != nil {
		spinner.Fail()
		return err
	}
	spinner.Success()

	for _, id := range []poker.PlayerID{poker.Alice, poker.Bob} {
		bal, err := alice.Game().Balance(id)
		if err != nil {
			return err
		}
		logger.Info("balance", "player", id.String(), "funds", bal.String())
	}
	if !cfg.Auto {
		printState(alice, getWinnerPanel(alice))
	}

	if cfg.Transcript {
		return printTranscript(t.transcript())
	}
	return nil
}

func (t *table) transcript() *ledger.Blockchain {
	return t.players[poker.Alice].Transcript()
}

func printTranscript(bc *ledger.Blockchain) error {
	if err := bc.Verify(); err != nil {
		return fmt.Errorf("transcript: %w", err)
	}
	data := pterm.TableData{{"#", "Direction", "Kind", "Step", "Size", "Digest"}}
	for i := 1; i < bc.Len(); i++ {
		b, err := bc.GetByIndex(i)
		if err != nil {
			return err
		}
		e := b.Entry
		data = append(data, []string{
			fmt.Sprint(b.Index), string(e.Direction), e.Kind, e.Step, fmt.Sprint(e.Size), e.Digest[:16],
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}
	head, err := bc.GetLatest()
	if err != nil {
		return err
	}
	pterm.Info.Printfln("%d messages, head %s", bc.Len()-1, head.Hash[:16])
	return nil
}

var humanActions = []string{"Check", "Call", "Raise", "Fold"}

// humanChooser asks on the terminal for the bet of p.
func humanChooser(p *game.Player) (poker.ActionType, poker.Money) {
	printState(p)
	for {
		selected, _ := pterm.DefaultInteractiveSelect.
			WithDefaultText(fmt.Sprintf("%s, select your next action", seatNames[p.Me()])).
			WithOptions(humanActions).Show()
		switch selected {
		case "Check":
			return poker.ActionCheck, poker.Money{}
		case "Call":
			return poker.ActionCall, poker.Money{}
		case "Fold":
			return poker.ActionFold, poker.Money{}
		}
		text, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("Enter the amount to raise by").Show()
		amount, err := poker.ParseMoney(text)
		if err != nil {
			pterm.Error.Printfln("Invalid amount: %s", err.Error())
			continue
		}
		return poker.ActionRaise, amount
	}
}
