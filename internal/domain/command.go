package domain

// Command is a parsed user command from the REPL.
type Command struct {
	Type    CommandType
	Payload string // free-text remainder for commands that carry one
}

// CommandType enumerates what the user asked for.
type CommandType int

const (
	CommandUnknown CommandType = iota
	CommandHelp
	CommandQuit
	CommandStatus
	CommandListTasks
	CommandAddTask
	CommandDoneTask
	CommandStartTask
	CommandPause
	CommandResume
	CommandComplete
	CommandListGoals
	CommandStars
	CommandSetInterval
	CommandSetName
	CommandMute
	CommandUnmute
)

// String returns a human-readable command type for logging.
func (t CommandType) String() string {
	switch t {
	case CommandHelp:
		return "help"
	case CommandQuit:
		return "quit"
	case CommandStatus:
		return "status"
	case CommandListTasks:
		return "list-tasks"
	case CommandAddTask:
		return "add-task"
	case CommandDoneTask:
		return "done-task"
	case CommandStartTask:
		return "start-task"
	case CommandPause:
		return "pause"
	case CommandResume:
		return "resume"
	case CommandComplete:
		return "complete"
	case CommandListGoals:
		return "list-goals"
	case CommandStars:
		return "stars"
	case CommandSetInterval:
		return "set-interval"
	case CommandSetName:
		return "set-name"
	case CommandMute:
		return "mute"
	case CommandUnmute:
		return "unmute"
	default:
		return "unknown"
	}
}
