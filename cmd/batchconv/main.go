// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	batchconv "github.com/nicholasgasior/batchconv-go"
)

var version = "dev"

// stringList collects repeated flag values.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	var (
		target      string
		archive     string
		password    string
		urls        stringList
		allow       string
		output      string
		workers     int
		timeout     time.Duration
		verbose     bool
		showVersion bool
	)

	flag.StringVar(&target, "t", "", "Target format (required, e.g. md, txt, pdf)")
	flag.StringVar(&target, "target", "", "Target format (required, e.g. md, txt, pdf)")
	flag.StringVar(&archive, "a", "", "Archive file with additional inputs")
	flag.StringVar(&archive, "archive", "", "Archive file with additional inputs")
	flag.StringVar(&password, "password", "", "Password for an encrypted archive")
	flag.Var(&urls, "u", "Remote input URL (repeatable)")
	flag.Var(&urls, "url", "Remote input URL (repeatable)")
	flag.StringVar(&allow, "allow", "", "Comma-separated source format allow-list")
	flag.StringVar(&output, "o", "", "Output ZIP path (default: result archive name in cwd)")
	flag.StringVar(&output, "output", "", "Output ZIP path (default: result archive name in cwd)")
	flag.IntVar(&workers, "workers", batchconv.DefaultWorkers, "Concurrent conversion workers")
	flag.DurationVar(&timeout, "timeout", 0, "Overall batch deadline (0 = none)")
	flag.BoolVar(&verbose, "verbose", false, "Log progress to stderr")
	flag.BoolVar(&showVersion, "v", false, "Show version")
	flag.BoolVar(&showVersion, "version", false, "Show version")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: batchconv -t <format> [flags] [file ...]\n\n")
		fmt.Fprintf(os.Stderr, "Convert a batch of documents and package the results as a ZIP.\n\n")
		fmt.Fprintf(os.Stderr, "Arguments:\n")
		fmt.Fprintf(os.Stderr, "  file    Input files to convert\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("batchconv %s\n", version)
		os.Exit(0)
	}

	if target == "" {
		fmt.Fprintf(os.Stderr, "Error: -target is required\n\n")
		flag.Usage()
		os.Exit(2)
	}

	opts := []batchconv.Option{
		batchconv.WithWorkers(workers),
	}
	if timeout > 0 {
		opts = append(opts, batchconv.WithBatchTimeout(timeout))
	}
	if verbose {
		opts = append(opts, batchconv.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))))
	}

	in := batchconv.CollectRequest{
		ArchivePassword: password,
		URLs:            urls,
	}

	for _, p := range flag.Args() {
		data, err := os.ReadFile(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", p, err)
			os.Exit(1)
		}
		in.Uploads = append(in.Uploads, batchconv.NamedBytes{
			Name: filepath.Base(p),
			Data: data,
		})
	}

	if archive != "" {
		data, err := os.ReadFile(archive)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", archive, err)
			os.Exit(1)
		}
		in.Archive = &batchconv.NamedBytes{
			Name: filepath.Base(archive),
			Data: data,
		}
	}

	var allowed []string
	if allow != "" {
		for _, f := range strings.Split(allow, ",") {
			if f = strings.TrimSpace(f); f != "" {
				allowed = append(allowed, f)
			}
		}
	}

	engine := batchconv.New(opts...)

	result, err := engine.RunCollected(context.Background(), target, allowed, in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if output == "" {
		output = result.ArchiveName
	}
	dir := filepath.Dir(output)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
			os.Exit(1)
		}
	}
	if err := os.WriteFile(output, result.ArchiveBytes, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}

	succeeded := result.Succeeded()
	fmt.Printf("%s: %d/%d converted\n", output, succeeded, len(result.Manifest))
	if succeeded < len(result.Manifest) {
		for _, o := range result.Manifest {
			if o.Status != batchconv.StatusSuccess {
				fmt.Printf("  %s: %s", o.Name, o.Status)
				if o.ErrorMessage != "" {
					fmt.Printf(" (%s)", o.ErrorMessage)
				}
				fmt.Println()
			}
		}
	}
}
