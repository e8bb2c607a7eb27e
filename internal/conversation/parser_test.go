package conversation

import (
	"context"
	"testing"

	"github.com/hammamikhairi/chime/internal/domain"
	"github.com/hammamikhairi/chime/internal/logger"
)

func TestKeywordParser(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	parser := NewKeywordParser(log)
	ctx := context.Background()

	tests := []struct {
		input       string
		wantType    domain.CommandType
		wantPayload string
	}{
		// Help / quit
		{"help", domain.CommandHelp, ""},
		{"?", domain.CommandHelp, ""},
		{"quit", domain.CommandQuit, ""},
		{"q", domain.CommandQuit, ""},

		// Status / listings
		{"status", domain.CommandStatus, ""},
		{"where", domain.CommandStatus, ""},
		{"list", domain.CommandListTasks, ""},
		{"tasks", domain.CommandListTasks, ""},
		{"goals", domain.CommandListGoals, ""},
		{"stars", domain.CommandStars, ""},
		{"score", domain.CommandStars, ""},

		// Active task controls
		{"pause", domain.CommandPause, ""},
		{"brb", domain.CommandPause, ""},
		{"resume", domain.CommandResume, ""},
		{"back", domain.CommandResume, ""},
		{"complete", domain.CommandComplete, ""},
		{"did it", domain.CommandComplete, ""},

		// Mute
		{"mute", domain.CommandMute, ""},
		{"unmute", domain.CommandUnmute, ""},

		// Payload-carrying commands
		{"add homework 30", domain.CommandAddTask, "homework 30"},
		{"done homework", domain.CommandDoneTask, "homework"},
		{"start homework", domain.CommandStartTask, "homework"},
		{"begin piano", domain.CommandStartTask, "piano"},
		{"interval 15", domain.CommandSetInterval, "15"},
		{"every 30", domain.CommandSetInterval, "30"},
		{"name Mia", domain.CommandSetName, "Mia"},

		// Bare start falls through to the first pending task
		{"start", domain.CommandStartTask, ""},
		{"go", domain.CommandStartTask, ""},

		// Case insensitivity
		{"PAUSE", domain.CommandPause, ""},
		{"Add reading 20", domain.CommandAddTask, "reading 20"},

		// Unknown
		{"make me a sandwich", domain.CommandUnknown, "make me a sandwich"},
		{"", domain.CommandUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd, err := parser.Parse(ctx, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cmd.Type != tt.wantType {
				t.Errorf("input=%q: got type %s, want %s", tt.input, cmd.Type, tt.wantType)
			}
			if cmd.Payload != tt.wantPayload {
				t.Errorf("input=%q: got payload %q, want %q", tt.input, cmd.Payload, tt.wantPayload)
			}
		})
	}
}
