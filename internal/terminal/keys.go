package terminal

import (
	"time"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/input"
)

// escDelay bounds how long a lone Esc is held back to see whether it was the
// first half of an escape sequence split across two reads.
const escDelay = 30 * time.Millisecond

var navKeys = map[rune]tea.KeyType{
	input.KeyEnter:     tea.KeyEnter,
	input.KeyTab:       tea.KeyTab,
	input.KeyBackspace: tea.KeyBackspace,
	input.KeyUp:        tea.KeyUp,
	input.KeyDown:      tea.KeyDown,
	input.KeyLeft:      tea.KeyLeft,
	input.KeyRight:     tea.KeyRight,
	input.KeyHome:      tea.KeyHome,
	input.KeyEnd:       tea.KeyEnd,
	input.KeyPgUp:      tea.KeyPgUp,
	input.KeyPgDown:    tea.KeyPgDown,
	input.KeyDelete:    tea.KeyDelete,
}

// toKeyMsgs converts decoded input events into bubbletea key messages.
//
// An Alt combination comes out as Esc followed by the bare key: the terminal
// sends Alt+x and "Esc then x typed quickly" as the same bytes, and the Esc
// must still reach the quit binding. Alt+[ and Alt+O are the introducers of
// a CSI or SS3 sequence cut short by the read and are dropped. Releases,
// mouse and other reports are ignored.
func toKeyMsgs(events []input.Event) []tea.KeyMsg {
	var keys []tea.KeyMsg
	for _, ev := range events {
		k, ok := ev.(input.KeyPressEvent)
		if !ok {
			continue
		}
		if k.Mod.Contains(input.ModAlt) {
			if isIntroducer(k) {
				continue
			}
			keys = append(keys, tea.KeyMsg{Type: tea.KeyEsc})
			k.Mod &^= input.ModAlt
		}
		if msg, ok := keyMsg(k); ok {
			keys = append(keys, msg)
		}
	}
	return keys
}

func isIntroducer(k input.KeyPressEvent) bool {
	switch {
	case k.Text == "[" || k.Text == "O":
		return true
	case k.Text == "" && (k.Code == '[' || k.Code == 'O'):
		return true
	}
	return false
}

func keyMsg(k input.KeyPressEvent) (tea.KeyMsg, bool) {
	switch {
	case k.Code == input.KeyEscape:
		return tea.KeyMsg{Type: tea.KeyEsc}, true
	case k.Mod.Contains(input.ModCtrl) && k.Code >= 'a' && k.Code <= 'z':
		return tea.KeyMsg{Type: tea.KeyCtrlA + tea.KeyType(k.Code-'a')}, true
	case k.Code == input.KeySpace:
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, true
	}
	if t, ok := navKeys[k.Code]; ok {
		return tea.KeyMsg{Type: t}, true
	}

	text := k.Text
	if text == "" && k.Code < input.KeyExtended && unicode.IsPrint(k.Code) {
		// alt-stripped keys lose their text
		r := k.Code
		if k.Mod.Contains(input.ModShift) && k.ShiftedCode != 0 {
			r = k.ShiftedCode
		}
		text = string(r)
	}
	if text == "" {
		return tea.KeyMsg{}, false
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}, true
}

// isLoneEsc reports a read that held nothing but the Esc byte.
func isLoneEsc(events []input.Event) bool {
	if len(events) != 1 {
		return false
	}
	k, ok := events[0].(input.KeyPressEvent)
	return ok && k.Code == input.KeyEscape && k.Mod == 0
}

// isSplitTail reports keys that continue an escape sequence whose Esc came
// in the previous read.
func isSplitTail(keys []tea.KeyMsg) bool {
	if len(keys) == 0 || keys[0].Type != tea.KeyRunes {
		return false
	}
	s := string(keys[0].Runes)
	return s == "[" || s == "O"
}
