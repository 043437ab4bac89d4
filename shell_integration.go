package vtcore

import (
	"strings"

	"github.com/danielgatis/go-ansicode"
)

// PromptMark records one shell integration mark (OSC 133), letting a host
// jump between shell prompts in scrollback the way an IDE jumps between
// diagnostics.
type PromptMark struct {
	Type ansicode.ShellIntegrationMark
	// Row is absolute: it includes the scrollback offset, so marks stay
	// comparable across a scroll event.
	Row int
	// ExitCode is only meaningful on a CommandFinished mark; -1 otherwise.
	ExitCode int
}

// ShellIntegrationProvider is notified on every shell integration mark, in
// addition to the mark being recorded for PromptMarks/NextPromptRow/etc.
type ShellIntegrationProvider interface {
	OnMark(mark ansicode.ShellIntegrationMark, exitCode int)
}

// NoopShellIntegration ignores shell integration events.
type NoopShellIntegration struct{}

func (NoopShellIntegration) OnMark(mark ansicode.ShellIntegrationMark, exitCode int) {}

var _ ShellIntegrationProvider = (*NoopShellIntegration)(nil)

// ShellIntegrationMark records a shell integration mark (OSC 133). Required
// by the ansicode.Handler interface.
func (t *Terminal) ShellIntegrationMark(mark ansicode.ShellIntegrationMark, exitCode int) {
	if t.middleware != nil && t.middleware.ShellIntegrationMark != nil {
		t.middleware.ShellIntegrationMark(mark, exitCode, t.shellIntegrationMarkInternal)
		return
	}
	t.shellIntegrationMarkInternal(mark, exitCode)
}

func (t *Terminal) shellIntegrationMarkInternal(mark ansicode.ShellIntegrationMark, exitCode int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	absoluteRow := t.cursor.Row + t.primaryBuffer.ScrollbackLen()
	t.promptMarks = append(t.promptMarks, PromptMark{
		Type:     mark,
		Row:      absoluteRow,
		ExitCode: exitCode,
	})

	if t.shellIntegrationProvider != nil {
		t.shellIntegrationProvider.OnMark(mark, exitCode)
	}
}

// PromptMarks returns a copy of every recorded prompt mark.
func (t *Terminal) PromptMarks() []PromptMark {
	t.mu.RLock()
	defer t.mu.RUnlock()
	marks := make([]PromptMark, len(t.promptMarks))
	copy(marks, t.promptMarks)
	return marks
}

// PromptMarkCount returns the number of recorded prompt marks.
func (t *Terminal) PromptMarkCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.promptMarks)
}

// ClearPromptMarks discards every recorded prompt mark.
func (t *Terminal) ClearPromptMarks() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.promptMarks = nil
}

// NextPromptRow returns the absolute row of the next prompt mark after
// currentAbsRow, or -1 if none exists. markType of -1 matches any mark type.
func (t *Terminal) NextPromptRow(currentAbsRow int, markType ansicode.ShellIntegrationMark) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, mark := range t.promptMarks {
		if mark.Row > currentAbsRow && (markType == -1 || mark.Type == markType) {
			return mark.Row
		}
	}
	return -1
}

// PrevPromptRow returns the absolute row of the previous prompt mark before
// currentAbsRow, or -1 if none exists. markType of -1 matches any mark type.
func (t *Terminal) PrevPromptRow(currentAbsRow int, markType ansicode.ShellIntegrationMark) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for i := len(t.promptMarks) - 1; i >= 0; i-- {
		if mark := t.promptMarks[i]; mark.Row < currentAbsRow && (markType == -1 || mark.Type == markType) {
			return mark.Row
		}
	}
	return -1
}

// GetPromptMarkAt returns the prompt mark at the given absolute row, or nil.
func (t *Terminal) GetPromptMarkAt(absRow int) *PromptMark {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for i := range t.promptMarks {
		if t.promptMarks[i].Row == absRow {
			mark := t.promptMarks[i]
			return &mark
		}
	}
	return nil
}

// SetShellIntegrationProvider installs p as the shell integration provider.
func (t *Terminal) SetShellIntegrationProvider(p ShellIntegrationProvider) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.shellIntegrationProvider = p
}

// ShellIntegrationProviderValue returns the currently installed provider.
func (t *Terminal) ShellIntegrationProviderValue() ShellIntegrationProvider {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.shellIntegrationProvider
}

// GetLastCommandOutput returns the text between the most recent matched
// CommandExecuted/CommandFinished mark pair, or "" if none is complete.
func (t *Terminal) GetLastCommandOutput() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.promptMarks) == 0 {
		return ""
	}

	var lastExecuted, lastFinished *PromptMark
	for i := len(t.promptMarks) - 1; i >= 0; i-- {
		mark := &t.promptMarks[i]
		if lastFinished == nil && mark.Type == ansicode.CommandFinished {
			lastFinished = mark
		}
		// Only a CommandExecuted recorded before the finish mark pairs with
		// it; one recorded after it belongs to a command still running.
		if lastFinished != nil && mark.Type == ansicode.CommandExecuted {
			lastExecuted = mark
			break
		}
	}

	if lastExecuted == nil || lastFinished == nil || lastExecuted.Row > lastFinished.Row {
		return ""
	}
	return t.extractTextBetweenRows(lastExecuted.Row, lastFinished.Row)
}

// extractTextBetweenRows joins line content from absolute row startRow
// (inclusive) to endRow (exclusive), pulling from scrollback or the active
// buffer as needed, with trailing blank lines trimmed.
func (t *Terminal) extractTextBetweenRows(startRow, endRow int) string {
	scrollbackLen := t.primaryBuffer.ScrollbackLen()

	lines := make([]string, 0, endRow-startRow)
	for absRow := startRow; absRow < endRow; absRow++ {
		var lineContent string
		if absRow < scrollbackLen {
			if line := t.primaryBuffer.ScrollbackLine(absRow); line != nil {
				lineContent = cellRowText(line)
			}
		} else if bufferRow := absRow - scrollbackLen; bufferRow >= 0 && bufferRow < t.rows {
			lineContent = t.activeBuffer.LineContent(bufferRow)
		}
		lines = append(lines, lineContent)
	}

	lastNonEmpty := -1
	for i, line := range lines {
		if line != "" {
			lastNonEmpty = i
		}
	}
	if lastNonEmpty < 0 {
		return ""
	}
	return strings.Join(lines[:lastNonEmpty+1], "\n")
}
