package ui

import tea "github.com/charmbracelet/bubbletea"

func isKey(msg tea.KeyMsg, keys ...string) bool {
	for _, k := range keys {
		if msg.String() == k {
			return true
		}
	}
	return false
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

func isEnter(msg tea.KeyMsg) bool {
	return isKey(msg, "enter", "return")
}

func isForwardTab(msg tea.KeyMsg) bool {
	return isKey(msg, "tab")
}

func isBackTab(msg tea.KeyMsg) bool {
	return isKey(msg, "shift+tab")
}

func isTab(msg tea.KeyMsg, n int) bool {
	switch n {
	case 1:
		return isKey(msg, "1")
	case 2:
		return isKey(msg, "2")
	case 3:
		return isKey(msg, "3")
	case 4:
		return isKey(msg, "4")
	case 5:
		return isKey(msg, "5")
	}
	return false
}
