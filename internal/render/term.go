package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"
)

const loadingMsg = "Loading…"

// IsTerminal сообщает, является ли f интерактивным терминалом.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// TerminalWidth возвращает число колонок терминала за f.
func TerminalWidth(f *os.File) (int, error) {
	ws, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0, fmt.Errorf("failed to get terminal size: %w", err)
	}
	if ws.Col == 0 {
		return 0, fmt.Errorf("terminal reports zero columns")
	}
	return int(ws.Col), nil
}

// ResolveColumns применяет соглашение --columns: положительное значение
// используется как есть, 0 означает ширину терминала, -X ширину, но не больше X.
func ResolveColumns(requested int, detect func() (int, error)) int {
	if requested > 0 {
		return requested
	}

	detected, err := detect()
	if err != nil || detected <= 0 {
		if requested < 0 {
			return -requested
		}
		return FallbackColumns
	}
	if requested < 0 && -requested < detected {
		return -requested
	}
	return detected
}

// Loading показывает сообщение о загрузке в w до вызова возвращенной функции.
func Loading(w io.Writer, enabled bool) func() {
	if !enabled {
		return func() {}
	}
	fmt.Fprint(w, loadingMsg)
	return func() {
		fmt.Fprint(w, "\r"+strings.Repeat(" ", len([]rune(loadingMsg)))+"\r")
	}
}
