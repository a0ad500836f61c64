package main

import (
	"fmt"
	"strings"

	"github.com/luca-patrignani/heads-up-poker/domain/poker"
	"github.com/luca-patrignani/heads-up-poker/game"
	"github.com/pterm/pterm"
)

var seatNames = map[poker.PlayerID]string{poker.Alice: "Alice", poker.Bob: "Bob", poker.Tie: "Tie"}

func colorCard(c poker.Card) string {
	if c.IsUnknown() {
		return pterm.Gray(c.String())
	}
	switch c.Suit() {
	case poker.Diamond, poker.Heart:
		return pterm.LightRed(c.String())
	}
	return pterm.Black(c.String())
}

func getActionPanel(p *game.Player, a poker.ActionType, amount poker.Money) pterm.Panel {
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	var actionString string
	switch a {
	case poker.ActionRaise:
		actionString = pterm.Sprintfln("%s raised by %s", seatNames[p.Me()], amount)
	default:
		actionString = pterm.Sprintfln("%s performed action: %s", seatNames[p.Me()], a)
	}
	return pterm.Panel{Data: pbox.WithTitle(pterm.LightYellow("|LAST ACTION|")).WithTitleTopCenter().Sprint(actionString)}
}

func getWinnerPanel(p *game.Player) pterm.Panel {
	g := p.Game()
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	var info strings.Builder
	for _, id := range []poker.PlayerID{poker.Alice, poker.Bob} {
		share := g.FundsShare[id]
		if share.IsZero() {
			continue
		}
		hand, err := p.HandName(id)
		if err != nil {
			info.WriteString(pterm.Sprintfln("%s won %s taking down the pot", pterm.LightCyan(seatNames[id]), share))
			continue
		}
		info.WriteString(pterm.Sprintfln("%s won %s with %s", pterm.LightCyan(seatNames[id]), share, hand))
	}
	if g.Muck {
		info.WriteString(pterm.Sprintfln("the loser's cards were mucked"))
	}
	return pterm.Panel{Data: pbox.WithTitle(pterm.LightGreen("|SHOWDOWN|")).WithTitleTopCenter().Sprint(info.String())}
}

// printState renders the table as p sees it.
func printState(p *game.Player, additionalPanel ...pterm.Panel) {
	g := p.Game()
	opp := pterm.Panel{Data: printPlayerInfo(g, p.Me().Opponent(), false)}
	mainPlayer := pterm.Panel{Data: printPlayerInfo(g, p.Me(), true)}
	board := pterm.Panel{Data: printBoardInfo(g)}
	dashboard := append([]pterm.Panel{mainPlayer}, additionalPanel...)

	pterm.DefaultPanel.WithPanels([][]pterm.Panel{
		{opp},
		{board},
		dashboard,
	}).Render()
}

func printPlayerInfo(g poker.GameState, id poker.PlayerID, main bool) string {
	hpadding := 4
	if main {
		hpadding = 10
	}
	pl := g.Players[id]
	pbox := pterm.DefaultBox.WithHorizontalPadding(hpadding).WithTopPadding(1).WithBottomPadding(1)
	var active string
	switch {
	case g.Winner == id:
		active = pterm.LightGreen("Winner")
	case g.Winner == poker.Tie:
		active = pterm.LightYellow("Split pot")
	case g.Winner != poker.Nobody:
		active = pterm.LightRed("Lost")
	case g.CurrentPlayer == id:
		active = pterm.LightGreen("To act")
	default:
		active = pterm.Gray("Waiting")
	}
	hand := pterm.BgGreen.Sprintf("%s - %s", colorCard(pl.Cards[0]), colorCard(pl.Cards[1]))
	return pbox.WithTitle(seatNames[id]).WithTitleTopLeft().Sprintf("%s\nCurrent Bet: %s\nBankroll: %s\n%s\n", active, pl.Bets, pl.TotalFunds, hand)
}

func printBoardInfo(g poker.GameState) string {
	cards := make([]string, len(g.PublicCards))
	for i, c := range g.PublicCards {
		cards[i] = colorCard(c)
	}
	board := fmt.Sprintf("%s | Pot: %s | %s", strings.Join(cards, " - "), g.Pot(), g.Phase)
	return pterm.BgGreen.Sprint("\n" + board + "\n")
}
