package ui

import tea "github.com/charmbracelet/bubbletea"

// --- Key Constants ---

func isKey(msg tea.KeyMsg, keys ...string) bool {
	for _, k := range keys {
		if msg.String() == k {
			return true
		}
	}
	return false
}

func isQuit(msg tea.KeyMsg) bool {
	return isKey(msg, "q", "ctrl+c")
}

func isBack(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyEsc {
		return true
	}
	return isKey(msg, "esc", "escape", "ctrl+[")
}

func isUp(msg tea.KeyMsg) bool {
	return isKey(msg, "up")
}

func isDown(msg tea.KeyMsg) bool {
	return isKey(msg, "down")
}

func isLeft(msg tea.KeyMsg) bool {
	return isKey(msg, "left")
}

func isRight(msg tea.KeyMsg) bool {
	return isKey(msg, "right")
}

func isEnter(msg tea.KeyMsg) bool {
	return isKey(msg, "enter", "return")
}

func isSpace(msg tea.KeyMsg) bool {
	return isKey(msg, " ")
}

func isNextPage(msg tea.KeyMsg) bool {
	return isKey(msg, "n", "pgdown")
}

func isPrevPage(msg tea.KeyMsg) bool {
	return isKey(msg, "p", "pgup")
}

// vimUp and vimDown add j/k row movement when vim_keys is on.
func vimUp(msg tea.KeyMsg, enabled bool) bool {
	return isUp(msg) || (enabled && isKey(msg, "k"))
}

func vimDown(msg tea.KeyMsg, enabled bool) bool {
	return isDown(msg) || (enabled && isKey(msg, "j"))
}

func tabIndexForKey(key string) (int, bool) {
	switch key {
	case "1", "2":
		idx := int(key[0] - '1')
		if idx < tabCount {
			return idx, true
		}
	}
	return 0, false
}
