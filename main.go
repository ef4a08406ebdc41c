package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/sadopc/rollcall/internal/cli"
	"github.com/sadopc/rollcall/internal/logger"
	"github.com/sadopc/rollcall/internal/notify"
	"github.com/sadopc/rollcall/internal/store"
)

var CLI struct {
	Version kong.VersionFlag
	DB      string `help:"Database file path." env:"ROLLCALL_DB" type:"path"`
	Debug   bool   `help:"Log debug output to stderr as well as the log file."`
	LogDir  string `help:"Directory for log files." type:"path"`

	Init    cli.InitCmd `cmd:"" help:"Create the database."`
	Subject struct {
		Add    cli.SubjectAddCmd    `cmd:"" help:"Add a subject."`
		Edit   cli.SubjectEditCmd   `cmd:"" help:"Edit a subject."`
		List   cli.SubjectListCmd   `cmd:"" help:"List subjects with attendance." default:"1"`
		Delete cli.SubjectDeleteCmd `cmd:"" help:"Delete a subject with its classes and attendance."`
	} `cmd:"" help:"Manage subjects."`
	Class struct {
		Add    cli.ClassAddCmd    `cmd:"" help:"Add a weekly class to the timetable."`
		Edit   cli.ClassEditCmd   `cmd:"" help:"Edit a class."`
		List   cli.ClassListCmd   `cmd:"" help:"Show the weekly timetable." default:"1"`
		Delete cli.ClassDeleteCmd `cmd:"" help:"Delete a class and its attendance."`
	} `cmd:"" help:"Manage the timetable."`
	Mark     cli.MarkCmd     `cmd:"" help:"Mark attendance for a class."`
	Unmark   cli.UnmarkCmd   `cmd:"" help:"Clear the attendance mark for a class."`
	Today    cli.TodayCmd    `cmd:"" help:"Show today's classes." default:"1"`
	Day      cli.DayCmd      `cmd:"" help:"Show classes for a date."`
	Calendar cli.CalendarCmd `cmd:"" help:"Show a month of attendance."`
	Stats    cli.StatsCmd    `cmd:"" help:"Show attendance statistics."`
	Task     struct {
		Add    cli.TaskAddCmd    `cmd:"" help:"Add a task."`
		Edit   cli.TaskEditCmd   `cmd:"" help:"Edit a task."`
		List   cli.TaskListCmd   `cmd:"" help:"List tasks." default:"1"`
		Done   cli.TaskDoneCmd   `cmd:"" help:"Toggle a task's completion."`
		Delete cli.TaskDeleteCmd `cmd:"" help:"Delete a task."`
	} `cmd:"" help:"Manage tasks."`
	Reminders struct {
		Show     cli.RemindersShowCmd     `cmd:"" help:"Show reminder settings and the queue." default:"1"`
		Set      cli.RemindersSetCmd      `cmd:"" help:"Turn reminders on or off."`
		Dispatch cli.RemindersDispatchCmd `cmd:"" help:"Deliver reminders that are due."`
	} `cmd:"" help:"Manage reminders."`
	Export cli.ExportCmd `cmd:"" help:"Export attendance history."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("rollcall"),
		kong.Description("Class attendance tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": "v0.1.0"},
	)

	logDir := CLI.LogDir
	if logDir == "" {
		dir, err := logger.DefaultDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logDir = dir
	}
	if err := logger.Init(logger.Config{Debug: CLI.Debug, Dir: logDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	dbPath := CLI.DB
	if dbPath == "" {
		path, err := store.DefaultDBPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		dbPath = path
	}

	s := store.New(dbPath)
	defer s.Close()
	if err := s.Initialize(); err != nil {
		logger.Error("Database initialization failed", "path", dbPath, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	appCtx := &cli.Context{
		Store:     s,
		Scheduler: notify.NewScheduler(s, notify.NewQueueNotifier(s)),
		Out:       os.Stdout,
	}

	if err := ctx.Run(appCtx); err != nil {
		logger.Error("Command failed", "command", ctx.Command(), "error", err)
		s.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
