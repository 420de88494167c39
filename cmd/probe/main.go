package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/sheetcount/internal/probe"
)

// Default configuration constants.
const (
	defaultRequests  = 3
	defaultTimeout   = 10 * time.Second
	defaultRunBudget = 2 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:9080", "Base URL of the service")
		requests = flag.Int("requests", defaultRequests, "Number of sequential requests")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose  = flag.Bool("verbose", false, "Log every response")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		probe.ShowHelp()
		return
	}

	if err := probe.SetupLogging(*verbose); err != nil {
		os.Stderr.WriteString("failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunBudget)
	defer cancel()

	cfg := &probe.Config{
		BaseURL:  *baseURL,
		Requests: *requests,
		Timeout:  *timeout,
		Verbose:  *verbose,
	}
	if _, err := probe.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("probe failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
