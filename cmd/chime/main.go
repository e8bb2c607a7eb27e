// Chime — a family time-announcement and task-timer assistant.
//
// Usage:
//
//	chime [-verbose] [-quiet]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/hammamikhairi/chime/internal/announce"
	"github.com/hammamikhairi/chime/internal/conversation"
	"github.com/hammamikhairi/chime/internal/deadline"
	"github.com/hammamikhairi/chime/internal/display"
	"github.com/hammamikhairi/chime/internal/domain"
	"github.com/hammamikhairi/chime/internal/goal"
	"github.com/hammamikhairi/chime/internal/logger"
	"github.com/hammamikhairi/chime/internal/reward"
	"github.com/hammamikhairi/chime/internal/speech"
	"github.com/hammamikhairi/chime/internal/storage"
	"github.com/hammamikhairi/chime/internal/task"
)

func main() {
	_ = godotenv.Load()

	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", ".chime-logs/chime.log", "file to write logs to (use \"stderr\" to log to console)")
	dbPath := flag.String("db", ".chime/chime.db", "path to the SQLite database")
	noSpeech := flag.Bool("no-speech", false, "disable text-to-speech even if Azure keys are set")
	diskCache := flag.Bool("disk-cache", true, "persist TTS audio cache to disk (reads from disk even when false)")
	cacheDir := flag.String("cache-dir", ".chime-cache", "directory for persistent TTS audio cache")
	flag.Parse()

	// Configure logger.
	logLevel := logger.LevelNormal
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	// Direct logs to a file by default so the REPL stays clean.
	var logOut io.Writer = os.Stderr
	if *logFile != "" && *logFile != "stderr" {
		dir := filepath.Dir(*logFile)
		if dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", *logFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}

	// Redirect Go's default log package to the same output so third-party
	// libs don't spam the terminal.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logLevel, logOut)

	// Set up context — cancelled when the UI quits.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Wire storage.
	store, err := storage.New(*dbPath, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()
	session := storage.NewSessionStore(log)

	// The status bar needs components built below it; the indirection keeps
	// construction order simple.
	var statusFn display.StatusFunc
	ui := display.NewUI(func() display.Status {
		if statusFn == nil {
			return display.Status{}
		}
		return statusFn()
	})

	textNotifier := conversation.NewCLINotifier(log, ui.Printf)
	parser := conversation.NewKeywordParser(log)

	ledger := reward.New(store.Rewards(), log)
	ledger.Load(ctx)

	cfg, err := store.Settings().Load(ctx)
	if err != nil {
		log.Error("loading settings: %v", err)
		cfg = domain.DefaultClockSettings()
	}

	// Build the active notifier. If TTS is available, wrap the text notifier
	// with a SpeakingNotifier that also speaks through the Mouth.
	var activeNotifier domain.Notifier = textNotifier
	var mouth *speech.Mouth

	azureKey := os.Getenv(speech.EnvAzureSpeechKey)
	azureRegion := os.Getenv(speech.EnvAzureSpeechRegion)

	if azureKey != "" && azureRegion != "" && !*noSpeech {
		azureOpts := []speech.AzureOption{speech.WithVoice(cfg.VoiceID)}
		if cfg.ChildMode {
			// A touch slower for young listeners.
			azureOpts = append(azureOpts, speech.WithRate("-10%"))
		}
		ttsClient := speech.NewAzureClient(azureKey, azureRegion, log, azureOpts...)

		player, err := speech.NewPlayer(log)
		if err != nil {
			log.Error("audio player init failed, speech disabled: %v", err)
		} else {
			mouth = speech.NewMouth(ttsClient, player, log,
				speech.WithCacheDir(*cacheDir),
				speech.WithDiskWrite(*diskCache),
			)
			mouth.Start(ctx)
			activeNotifier = speech.NewSpeakingNotifier(textNotifier, mouth, log)
			log.Info("TTS enabled (voice=%s, region=%s)", ttsClient.Voice(), azureRegion)
		}
	} else if !*noSpeech {
		log.Info("TTS disabled: set %s and %s env vars to enable", speech.EnvAzureSpeechKey, speech.EnvAzureSpeechRegion)
	}

	// Reward hook: stars on every completion, plus the all-done bonus.
	award := func(taskID string, onTime bool) {
		stars, combo := ledger.AddCompletion(ctx, onTime)
		msg := fmt.Sprintf("you earned %d star", stars)
		if stars != 1 {
			msg += "s"
		}
		if combo {
			msg += ", combo bonus!"
		}
		if err := activeNotifier.Notify(ctx, msg); err != nil {
			log.Error("reward cue: %v", err)
		}

		all, err := store.Tasks().List(ctx)
		if err != nil {
			return
		}
		for _, t := range all {
			if !t.Completed {
				return
			}
		}
		if bonus := ledger.AddDailyBonus(ctx); bonus > 0 {
			if err := activeNotifier.Notify(ctx, fmt.Sprintf("everything is done today! %d bonus stars!", bonus)); err != nil {
				log.Error("reward cue: %v", err)
			}
		}
	}

	machine := task.New(store.Tasks(), session, activeNotifier, log,
		task.WithCompletionHook(award),
	)
	if err := machine.Restore(ctx); err != nil {
		log.Error("restoring session: %v", err)
	}
	defer machine.Stop()

	planner := goal.NewPlanner(store.Goals(), store.Tasks(), log)
	watcher := goal.NewWatcher(planner, store.Goals(), activeNotifier, log)
	go watcher.Run(ctx)

	composer := announce.NewComposer(machine, planner, store.Tasks(), store.Settings(), log)
	scheduler := announce.New(store.Settings(), activeNotifier, composer, log)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	// Snapshot today's task count for the reward archive.
	if tasks, err := store.Tasks().List(ctx); err == nil {
		ledger.RecordTaskTotal(ctx, len(tasks))
	}

	statusFn = func() display.Status {
		now := time.Now()
		s := display.Status{
			Clock: now.Format("15:04:05"),
			Muted: mouth != nil && mouth.Muted(),
		}
		if c, err := store.Settings().Load(ctx); err == nil && c.Enabled {
			s.NextAnnounce = announce.FormatNext(scheduler.Next(ctx))
		}
		if snap := machine.Snapshot(); snap != nil {
			s.TaskLabel = snap.Task.Text
			s.TaskRemain = snap.Remaining
			s.TaskPaused = snap.Status == domain.TaskPaused
			s.TimeUp = snap.Remaining == 0
		}
		st := ledger.State()
		s.Stars = fmt.Sprintf("%d/%d ★", st.TodayStars, st.DailyGoal)
		return s
	}

	app := &cliApp{
		tasks:     store.Tasks(),
		goals:     store.Goals(),
		settings:  store.Settings(),
		machine:   machine,
		planner:   planner,
		scheduler: scheduler,
		ledger:    ledger,
		parser:    parser,
		notifier:  activeNotifier,
		mouth:     mouth,
		log:       log,
		ui:        ui,
	}

	fmt.Println(display.RenderBanner())
	fmt.Println(display.BannerStyle.Render("  Type 'help' for commands, 'quit' to exit."))
	fmt.Println()

	// Run app logic in a background goroutine.
	go func() {
		ui.WaitReady()
		app.run(ctx)
		ui.Quit()
	}()

	// Bubble Tea owns the terminal — blocks until quit.
	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
	}
	cancel()
}

type cliApp struct {
	tasks     domain.TaskRepository
	goals     domain.GoalRepository
	settings  domain.SettingsRepository
	machine   *task.Machine
	planner   *goal.Planner
	scheduler *announce.Scheduler
	ledger    *reward.Ledger
	parser    domain.CommandParser
	notifier  domain.Notifier
	mouth     *speech.Mouth // nil when TTS is disabled
	log       *logger.Logger
	ui        *display.UI
}

// say prints a message and queues it for speech at the given priority. Use
// for conversational lines the user should hear. For raw formatting (task
// lists, tables) use the ui helpers directly — those shouldn't be spoken.
func (a *cliApp) say(text string, priority speech.Priority) {
	a.ui.PrintChat(text)
	if a.mouth != nil {
		a.mouth.Say(text, priority)
	}
}

func (a *cliApp) run(ctx context.Context) {
	a.say("hello! I'll keep an eye on the clock for you.", speech.PriorityNormal)
	a.ui.Println("")
	a.showTasks(ctx)

	uiCh := a.ui.InputChan()

	for {
		var input string
		var ok bool

		select {
		case <-ctx.Done():
			return
		case input, ok = <-uiCh:
			if !ok {
				return
			}
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		cmd, err := a.parser.Parse(ctx, input)
		if err != nil {
			a.log.Error("parsing input: %v", err)
			continue
		}

		a.log.Debug("command: %s (payload=%q)", cmd.Type, cmd.Payload)
		if a.handleCommand(ctx, cmd) {
			return
		}
	}
}

// handleCommand dispatches one parsed command. Returns true on quit.
func (a *cliApp) handleCommand(ctx context.Context, cmd *domain.Command) bool {
	switch cmd.Type {
	case domain.CommandHelp:
		a.showHelp()
	case domain.CommandQuit:
		a.say("bye! see you later.", speech.PriorityNormal)
		// Brief pause so TTS can start the goodbye line.
		time.Sleep(300 * time.Millisecond)
		return true
	case domain.CommandStatus:
		a.status(ctx)
	case domain.CommandListTasks:
		a.showTasks(ctx)
	case domain.CommandAddTask:
		a.addTask(ctx, cmd.Payload)
	case domain.CommandDoneTask:
		a.doneTask(ctx, cmd.Payload)
	case domain.CommandStartTask:
		a.startTask(ctx, cmd.Payload)
	case domain.CommandPause:
		a.pause(ctx)
	case domain.CommandResume:
		a.resume(ctx)
	case domain.CommandComplete:
		a.complete(ctx)
	case domain.CommandListGoals:
		a.showGoals(ctx)
	case domain.CommandStars:
		a.showStars()
	case domain.CommandSetInterval:
		a.setInterval(ctx, cmd.Payload)
	case domain.CommandSetName:
		a.setName(ctx, cmd.Payload)
	case domain.CommandMute:
		a.setMuted(ctx, true)
	case domain.CommandUnmute:
		a.setMuted(ctx, false)
	case domain.CommandUnknown:
		a.ui.PrintHint("Didn't catch that — type 'help' for commands.")
	}
	return false
}

func (a *cliApp) showTasks(ctx context.Context) {
	tasks, err := a.tasks.List(ctx)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error loading tasks: %v", err))
		return
	}
	if len(tasks) == 0 {
		a.ui.PrintHint("No tasks yet. Try: add homework 30")
		return
	}

	a.ui.PrintItem("Today's tasks:")
	for i, t := range tasks {
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %d. %s", mark, i+1, t.Text)
		if t.Timed() {
			line += fmt.Sprintf(" (%dm)", t.DurationMinutes)
		}
		if t.Deadline != "" {
			line += " by " + t.Deadline
		}
		if t.Completed {
			a.ui.PrintHint(line)
		} else {
			a.ui.PrintItem(line)
		}
	}
}

// addTask parses "text [minutes] [by HH:MM]" and stores a new task.
func (a *cliApp) addTask(ctx context.Context, payload string) {
	if payload == "" {
		a.ui.PrintHint("Usage: add <task> [minutes] [by HH:MM]")
		return
	}

	t := domain.Task{ID: uuid.NewString(), Text: payload}

	// Trailing "by HH:MM" sets a deadline.
	if idx := strings.LastIndex(strings.ToLower(t.Text), " by "); idx > 0 {
		candidate := strings.TrimSpace(t.Text[idx+4:])
		if _, _, err := deadline.Parse(candidate); err == nil {
			t.Deadline = candidate
			t.Text = strings.TrimSpace(t.Text[:idx])
		}
	}

	// Trailing integer sets the duration in minutes.
	fields := strings.Fields(t.Text)
	if len(fields) > 1 {
		if n, err := strconv.Atoi(fields[len(fields)-1]); err == nil && n > 0 {
			t.DurationMinutes = n
			t.Text = strings.Join(fields[:len(fields)-1], " ")
		}
	}

	if t.Text == "" {
		a.ui.PrintHint("Usage: add <task> [minutes] [by HH:MM]")
		return
	}

	existing, err := a.tasks.List(ctx)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}
	t.Order = len(existing) + 1

	if err := a.tasks.Save(ctx, &t); err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error saving task: %v", err))
		return
	}
	a.ledger.RecordTaskTotal(ctx, len(existing)+1)

	desc := t.Text
	if t.Timed() {
		desc += fmt.Sprintf(", %d minutes", t.DurationMinutes)
	}
	if t.Deadline != "" {
		desc += ", by " + t.Deadline
	}
	a.say("added "+desc, speech.PriorityLow)
}

// doneTask marks a task complete without running its timer. Quick chores
// still earn their stars.
func (a *cliApp) doneTask(ctx context.Context, payload string) {
	t := a.findTask(ctx, payload)
	if t == nil {
		a.say(fmt.Sprintf("I couldn't find a task called %s", payload), speech.PriorityLow)
		return
	}
	if t.Completed {
		a.ui.PrintHint(t.Text + " is already done.")
		return
	}

	t.Completed = true
	if err := a.tasks.Save(ctx, t); err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}

	onTime := t.Deadline == "" || !deadline.IsOverdue(t.Deadline, time.Now())
	stars, combo := a.ledger.AddCompletion(ctx, onTime)
	msg := fmt.Sprintf("%s done, %d star", t.Text, stars)
	if stars != 1 {
		msg += "s"
	}
	if combo {
		msg += ", combo bonus!"
	}
	a.say(msg, speech.PriorityNormal)
}

// startTask begins the named timed task, or the first pending one when no
// name is given.
func (a *cliApp) startTask(ctx context.Context, payload string) {
	var target *domain.Task
	if payload == "" {
		tasks, err := a.tasks.List(ctx)
		if err != nil {
			a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
			return
		}
		for i := range tasks {
			if !tasks[i].Completed && tasks[i].Timed() {
				target = &tasks[i]
				break
			}
		}
		if target == nil {
			a.say("nothing left to start — all timed tasks are done!", speech.PriorityLow)
			return
		}
	} else {
		target = a.findTask(ctx, payload)
		if target == nil {
			a.say(fmt.Sprintf("I couldn't find a task called %s", payload), speech.PriorityLow)
			return
		}
	}

	err := a.machine.Start(ctx, target.ID)
	switch {
	case errors.Is(err, domain.ErrTaskRunning):
		a.say("one thing at a time! finish or pause the current task first.", speech.PriorityNormal)
	case errors.Is(err, domain.ErrNoDuration):
		a.say(fmt.Sprintf("%s has no timer. Use 'done %s' when it's finished.", target.Text, target.Text), speech.PriorityLow)
	case err != nil:
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
	}
}

func (a *cliApp) pause(ctx context.Context) {
	err := a.machine.Pause(ctx)
	switch {
	case errors.Is(err, domain.ErrNoActiveTask):
		a.say("nothing is running right now.", speech.PriorityLow)
	case errors.Is(err, domain.ErrTaskNotActive):
		a.say("it's already paused.", speech.PriorityLow)
	case err != nil:
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
	}
}

func (a *cliApp) resume(ctx context.Context) {
	err := a.machine.Resume(ctx)
	switch {
	case errors.Is(err, domain.ErrNoActiveTask):
		a.say("nothing is paused right now.", speech.PriorityLow)
	case errors.Is(err, domain.ErrTaskNotPaused):
		a.say("it's already running.", speech.PriorityLow)
	case err != nil:
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
	}
}

func (a *cliApp) complete(ctx context.Context) {
	err := a.machine.Complete(ctx)
	switch {
	case errors.Is(err, domain.ErrNoActiveTask):
		a.say("nothing is running — use 'done <task>' for untimed tasks.", speech.PriorityLow)
	case err != nil:
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
	}
}

func (a *cliApp) status(ctx context.Context) {
	now := time.Now()

	if snap := a.machine.Snapshot(); snap != nil {
		label := fmt.Sprintf("%s — %s left (%d%%)", snap.Task.Text,
			fmtDuration(snap.Remaining), snap.ProgressPercent)
		if snap.Status == domain.TaskPaused {
			label += " (paused)"
		}
		a.ui.PrintItem(label)
	} else {
		a.ui.PrintHint("No task running.")
	}

	if cfg, err := a.settings.Load(ctx); err == nil {
		if cfg.Enabled {
			a.ui.PrintHint(fmt.Sprintf("Clock: every %d minutes, next at %s",
				cfg.IntervalMinutes, announce.FormatNext(a.scheduler.Next(ctx))))
		} else {
			a.ui.PrintHint("Clock: muted")
		}
	}

	if g, err := a.planner.NextUpcoming(ctx, now); err == nil && g != nil {
		if m, err := deadline.MinutesUntil(g.TargetTime, now); err == nil {
			a.ui.PrintHint(fmt.Sprintf("Next goal: %s at %s (%d minutes)", g.Name, g.TargetTime, m))
		}
	}

	st := a.ledger.State()
	a.ui.PrintStars(fmt.Sprintf("Stars today: %d/%d (total %d)", st.TodayStars, st.DailyGoal, st.TotalStars))
}

func (a *cliApp) showGoals(ctx context.Context) {
	goals, err := a.goals.List(ctx)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error loading goals: %v", err))
		return
	}
	if len(goals) == 0 {
		a.ui.PrintHint("No goals configured.")
		return
	}

	now := time.Now()
	a.ui.PrintItem("Goals:")
	for _, g := range goals {
		state := ""
		if !g.Enabled {
			state = " (off)"
		}
		line := fmt.Sprintf("  %s at %s%s", g.Name, g.TargetTime, state)
		if total := a.planner.TotalDuration(ctx, g); total > 0 {
			if start, err := a.planner.StartTime(ctx, g, now); err == nil {
				line += fmt.Sprintf(" — %s of tasks, start by %s", fmtDuration(total), start.Format("15:04"))
			}
		}
		a.ui.PrintItem(line)
	}
}

func (a *cliApp) showStars() {
	st := a.ledger.State()

	a.ui.PrintStars(fmt.Sprintf("Today: %d/%d stars (%d%%)", st.TodayStars, st.DailyGoal, a.ledger.ProgressPercent()))
	a.ui.PrintStars(fmt.Sprintf("Total: %d stars, combo %d", st.TotalStars, st.CurrentCombo))

	if len(st.History) > 0 {
		a.ui.PrintHint("Past days:")
		for _, rec := range st.History {
			a.ui.PrintHint(fmt.Sprintf("  %s — %d stars, %d/%d tasks", rec.Date, rec.Earned, rec.CompletedTasks, rec.TotalTasks))
		}
	}

	msg := fmt.Sprintf("you have %d stars today", st.TodayStars)
	if st.TodayStars >= st.DailyGoal {
		msg += ". Daily goal reached, amazing!"
	}
	if a.mouth != nil {
		a.mouth.Say(msg, speech.PriorityLow)
	}
}

func (a *cliApp) setInterval(ctx context.Context, payload string) {
	n, err := strconv.Atoi(payload)
	if err != nil || n < 1 || n > 60 {
		a.ui.PrintHint("Interval must be 1-60 minutes.")
		return
	}

	cfg, err := a.settings.Load(ctx)
	if err != nil {
		cfg = domain.DefaultClockSettings()
	}
	cfg.IntervalMinutes = n
	if err := a.settings.Save(ctx, cfg); err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}

	a.say(fmt.Sprintf("okay, I'll announce the time every %d minutes. Next at %s.",
		n, announce.FormatNext(a.scheduler.Next(ctx))), speech.PriorityNormal)
}

func (a *cliApp) setName(ctx context.Context, payload string) {
	cfg, err := a.settings.Load(ctx)
	if err != nil {
		cfg = domain.DefaultClockSettings()
	}
	cfg.ChildName = payload
	if err := a.settings.Save(ctx, cfg); err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}

	if payload == "" {
		a.say("okay, no more name prefixes.", speech.PriorityLow)
	} else {
		a.say(fmt.Sprintf("got it, I'll call you %s.", payload), speech.PriorityNormal)
	}
}

func (a *cliApp) setMuted(ctx context.Context, muted bool) {
	cfg, err := a.settings.Load(ctx)
	if err != nil {
		cfg = domain.DefaultClockSettings()
	}
	cfg.Enabled = !muted
	if err := a.settings.Save(ctx, cfg); err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}

	if a.mouth != nil {
		a.mouth.SetMuted(muted)
	}
	if muted {
		a.ui.PrintHint("Announcements off. Type 'unmute' to turn them back on.")
	} else {
		a.say("announcements back on!", speech.PriorityNormal)
	}
}

// findTask matches payload against a 1-based list index, an exact ID, or a
// case-insensitive prefix of the task text.
func (a *cliApp) findTask(ctx context.Context, payload string) *domain.Task {
	tasks, err := a.tasks.List(ctx)
	if err != nil {
		a.log.Error("listing tasks: %v", err)
		return nil
	}

	if idx, err := strconv.Atoi(payload); err == nil && idx >= 1 && idx <= len(tasks) {
		return &tasks[idx-1]
	}

	needle := strings.ToLower(payload)
	for i := range tasks {
		if tasks[i].ID == payload {
			return &tasks[i]
		}
	}
	for i := range tasks {
		if strings.HasPrefix(strings.ToLower(tasks[i].Text), needle) {
			return &tasks[i]
		}
	}
	return nil
}

func (a *cliApp) showHelp() {
	a.ui.PrintItem("Commands:")
	a.ui.PrintItem("  list / tasks        Show today's tasks")
	a.ui.PrintItem("  add <task> [min] [by HH:MM]   Add a task")
	a.ui.PrintItem("  start [task]        Start a timed task (first pending if no name)")
	a.ui.PrintItem("  pause / resume      Freeze or restart the running task")
	a.ui.PrintItem("  complete            Finish the running task")
	a.ui.PrintItem("  done <task>         Check off an untimed task")
	a.ui.PrintItem("  goals               Show deadline goals and start times")
	a.ui.PrintItem("  stars / score       Show the reward ledger")
	a.ui.PrintItem("  status / where      Show what's happening right now")
	a.ui.PrintItem("  interval <1-60>     Set the time-announcement interval")
	a.ui.PrintItem("  name <name>         Prefix spoken messages with a name")
	a.ui.PrintItem("  mute / unmute       Toggle announcements")
	a.ui.PrintItem("  help                Show this message")
	a.ui.PrintItem("  quit / exit         Exit")
}

func fmtDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
