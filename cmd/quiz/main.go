package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/quizdesk/client/internal/client"
	"github.com/quizdesk/client/internal/config"
	"github.com/quizdesk/client/internal/session"
	"github.com/quizdesk/client/internal/tui"
)

func main() {
	topics := flag.String("topics", "", "comma-separated quiz topics")
	questionType := flag.String("type", "mixed", "question type: multiple_choice, open_ended or mixed")
	difficulty := flag.String("difficulty", "medium", "difficulty: easy, medium or hard")
	count := flag.String("count", "5", "number of questions (1-20)")
	title := flag.String("title", "", "title used when saving the quiz")
	description := flag.String("description", "", "optional quiz description")
	noColor := flag.Bool("no-color", false, "disable colored output")
	mock := flag.Bool("mock", false, "use the in-process mock backend")
	logFile := flag.String("log", "", "write logs to this file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// the log would otherwise draw over the terminal UI
	if *logFile != "" {
		f, err := tea.LogToFile(*logFile, "quiz")
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	var backend session.Backend
	if *mock || cfg.Backend.Mock {
		backend = client.NewMock()
	} else {
		backend = client.New(cfg.Backend)
	}

	params := session.GenerationParams{
		Topics:       session.SplitTopics(*topics),
		QuestionType: *questionType,
		Difficulty:   *difficulty,
		Count:        *count,
	}
	opts := tui.Options{NoColor: *noColor, Title: *title}
	if *description != "" {
		opts.Description = description
	}

	model := tui.NewModel(context.Background(), session.NewController(backend), params, opts)
	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "quiz: %v\n", err)
		os.Exit(1)
	}
	if m, ok := final.(tui.Model); ok && m.Redirect() != "" {
		fmt.Printf("Quiz saved: %s%s\n", cfg.Backend.BaseURL, m.Redirect())
	}
}
