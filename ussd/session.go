// Package ussd implements the menu-driven session state machine for the
// shopping/loan USSD flow. Transition is a pure function; all provider I/O
// happens at the dispatcher boundary.
package ussd

import (
	"fmt"
	"strings"

	"ussd-loan-engine/shared"
)

// Menu texts shown to the subscriber.
const (
	homeMenuText       = "Welcome to My Groceries!\n1. Buy Some Groceries\n2. Quit"
	quitMenuText       = "Thank you for shopping!"
	requestListText    = "Alright, what would you like delivered today? (separate each item with a space)"
	orderAcceptedText  = "Thanks for the order, we'll send you an SMS with the order amount.\nHave a nice day"
	orderDeclinedText  = "Thank you for using the service.\nHave a nice day"
	infoOwingFormat    = "Hey %s, you still owe me KES %d!"
	infoRepaidFormat   = "Hey %s, you have repaid your loan, good for you!"
	confirmItemsFormat = "Okay you selected these items:\n%s\nIs that correct??"
)

// Step is the result of one state-machine transition: the menu to render, the
// screen the next exchange starts on, and the full intended profile snapshot.
// The profile must be written back whole — the underlying store overwrites,
// it does not merge.
type Step struct {
	Next     shared.Screen
	Menu     shared.Menu
	Profile  shared.CustomerProfile
	Disburse bool  // true exactly when the order was confirmed
	Amount   int64 // disbursement amount when Disburse is set
}

// Transition maps (current screen, subscriber input, profile) to the next
// screen, the menu to render, and the profile mutations to persist.
//
// Unrecognized input on option-expecting screens is never an error: the
// subscriber just sees the current menu again. An unknown screen value falls
// back to the home menu.
func Transition(screen shared.Screen, input string, profile shared.CustomerProfile) Step {
	next := screen

	// Option selection happens on the home screen only; every other screen
	// consumes its input inside the switch below.
	if screen == shared.ScreenHome {
		switch {
		case input == "1":
			next = shared.ScreenRequestList
		case input == "2":
			next = shared.ScreenQuit
		case input == "" && profile.HasLoan():
			next = shared.ScreenInfo
		}
	}

	switch next {
	case shared.ScreenQuit:
		return terminal(quitMenuText, profile)

	case shared.ScreenInfo:
		text := fmt.Sprintf(infoRepaidFormat, profile.Name)
		if profile.Balance > 0 {
			text = fmt.Sprintf(infoOwingFormat, profile.Name, profile.Balance)
		}
		return terminal(text, profile)

	case shared.ScreenRequestList:
		return prompt(requestListText, shared.ScreenDisplayItems, profile)

	case shared.ScreenDisplayItems:
		// The input is the order itself, one item per space.
		profile.Items = strings.Fields(input)
		text := fmt.Sprintf(confirmItemsFormat, strings.Join(profile.Items, "\n"))
		return prompt(text, shared.ScreenFinishOrder, profile)

	case shared.ScreenFinishOrder:
		step := terminal(orderDeclinedText, profile)
		if strings.EqualFold(input, "yes") {
			step.Menu.Text = orderAcceptedText
			step.Disburse = true
			step.Amount = profile.Balance
		}
		return step

	default:
		// Home, and the fallback for unknown screens.
		profile.Screen = shared.ScreenHome
		return Step{
			Next:    shared.ScreenHome,
			Menu:    shared.Menu{Text: homeMenuText},
			Profile: profile,
		}
	}
}

// terminal ends the session and resets the screen pointer to home so the next
// dial starts fresh.
func terminal(text string, profile shared.CustomerProfile) Step {
	profile.Screen = shared.ScreenHome
	return Step{
		Next:    shared.ScreenHome,
		Menu:    shared.Menu{Text: text, IsTerminal: true},
		Profile: profile,
	}
}

func prompt(text string, next shared.Screen, profile shared.CustomerProfile) Step {
	profile.Screen = next
	return Step{
		Next:    next,
		Menu:    shared.Menu{Text: text},
		Profile: profile,
	}
}
