// Package conversation provides command parsing and user notification
// implementations.
package conversation

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/chime/internal/domain"
	"github.com/hammamikhairi/chime/internal/logger"
)

// Compile-time interface check.
var _ domain.CommandParser = (*KeywordParser)(nil)

// KeywordParser matches user input to commands using keywords and simple
// patterns. Swap this out for a voice-intent parser when ready.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
}

type patternRule struct {
	regex   *regexp.Regexp
	cmd     domain.CommandType
	payload bool // carry the regex remainder as payload
}

// NewKeywordParser creates a keyword-based command parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^(help|h|\?)$`), domain.CommandHelp, false},
		{regexp.MustCompile(`(?i)^(quit|exit|q|bye)$`), domain.CommandQuit, false},
		{regexp.MustCompile(`(?i)^(status|where|progress|info)$`), domain.CommandStatus, false},
		{regexp.MustCompile(`(?i)^(list|tasks|ls|show)$`), domain.CommandListTasks, false},
		{regexp.MustCompile(`(?i)^(goals|deadlines)$`), domain.CommandListGoals, false},
		{regexp.MustCompile(`(?i)^(stars|score|rewards?)$`), domain.CommandStars, false},
		{regexp.MustCompile(`(?i)^(pause|brb|wait|p)$`), domain.CommandPause, false},
		{regexp.MustCompile(`(?i)^(resume|back|unpause)$`), domain.CommandResume, false},
		{regexp.MustCompile(`(?i)^(complete|finished|did it)$`), domain.CommandComplete, false},
		{regexp.MustCompile(`(?i)^(mute|hush)$`), domain.CommandMute, false},
		{regexp.MustCompile(`(?i)^(unmute|speak)$`), domain.CommandUnmute, false},
		{regexp.MustCompile(`(?i)^add\s+(.+)$`), domain.CommandAddTask, true},
		{regexp.MustCompile(`(?i)^(?:done|check)\s+(.+)$`), domain.CommandDoneTask, true},
		{regexp.MustCompile(`(?i)^(?:start|begin|go)\s+(.+)$`), domain.CommandStartTask, true},
		{regexp.MustCompile(`(?i)^(?:interval|every)\s+(\d+)$`), domain.CommandSetInterval, true},
		{regexp.MustCompile(`(?i)^name\s+(.+)$`), domain.CommandSetName, true},
	}
	return p
}

// Parse converts user input into a command.
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Command, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return &domain.Command{Type: domain.CommandUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	for _, rule := range p.patterns {
		m := rule.regex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		p.log.Debug("matched command: %s", rule.cmd)
		cmd := &domain.Command{Type: rule.cmd}
		if rule.payload && len(m) > 1 {
			cmd.Payload = strings.TrimSpace(m[len(m)-1])
		}
		return cmd, nil
	}

	// Bare "start" with no argument starts the first pending timed task.
	if strings.EqualFold(trimmed, "start") || strings.EqualFold(trimmed, "go") {
		return &domain.Command{Type: domain.CommandStartTask}, nil
	}

	p.log.Debug("no match, returning unknown command")
	return &domain.Command{Type: domain.CommandUnknown, Payload: trimmed}, nil
}
