package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"

	"github.com/gigboard/gigboard/internal/config"
)

// Runner executes an external task to completion. It exists so the gateway
// can be exercised in tests without spawning real processes.
type Runner interface {
	Run(ctx context.Context, command string, args []string) error
}

// ExecRunner runs commands through os/exec, honoring context cancellation.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, command string, args []string) error {
	cmd := exec.CommandContext(ctx, command, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if len(out) > 0 {
			slog.Error("scraper process output", "command", command, "output", string(out))
		}
		return fmt.Errorf("run %s: %w", command, err)
	}
	return nil
}

// Script is a scraper backed by an external process that writes its findings
// to a JSON file. The topic and minimum price are appended as positional
// arguments.
type Script struct {
	name    string
	command string
	args    []string
	output  string
	runner  Runner
}

func NewScript(cfg config.Scraper, runner Runner) *Script {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Script{
		name:    cfg.Name,
		command: cfg.Command,
		args:    cfg.Args,
		output:  cfg.Output,
		runner:  runner,
	}
}

func (s *Script) Source() string { return s.name }

// Scrape invokes the process and reads its output file. A missing output
// file means the run found nothing and contributes zero records; a failed
// process or undecodable output fails the scrape.
func (s *Script) Scrape(ctx context.Context, topic string, minPrice int) ([]RawJob, error) {
	args := make([]string, 0, len(s.args)+2)
	args = append(args, s.args...)
	args = append(args, topic, strconv.Itoa(minPrice))

	if err := s.runner.Run(ctx, s.command, args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScraperFailure, err)
	}

	data, err := os.ReadFile(s.output)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("scraper produced no output file", "scraper", s.name, "path", s.output)
			return nil, nil
		}
		return nil, fmt.Errorf("%w: read output %s: %v", ErrScraperFailure, s.output, err)
	}

	var raws []RawJob
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("%w: decode output %s: %v", ErrScraperFailure, s.output, err)
	}
	return raws, nil
}
