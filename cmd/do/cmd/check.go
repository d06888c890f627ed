package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
)

type checker struct {
	name  string
	bin   string
	args  []string
	runFn func() error // custom run function (if set, bin/args ignored)
}

func CheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run gofmt, go vet and go test in parallel",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck()
		},
	}
}

func runCheck() error {
	if _, err := exec.LookPath("go"); err != nil {
		return fmt.Errorf("missing required binary: go")
	}

	checkers := []checker{
		{name: "gofmt", runFn: runGofmt},
		{name: "vet", bin: "go", args: []string{"vet", "./..."}},
		{name: "test", bin: "go", args: []string{"test", "./..."}},
	}

	start := time.Now()
	var wg sync.WaitGroup
	errCh := make(chan error, len(checkers))

	for _, c := range checkers {
		wg.Add(1)
		go func(c checker) {
			defer wg.Done()

			checkStart := time.Now()
			var err error
			if c.runFn != nil {
				err = c.runFn()
			} else {
				cmd := exec.Command(c.bin, c.args...)
				cmd.Stdout = os.Stdout
				cmd.Stderr = os.Stderr
				err = cmd.Run()
			}

			if err != nil {
				errCh <- fmt.Errorf("%s: %w", c.name, err)
				return
			}

			fmt.Printf("[%s] done (%s)\n", c.name, time.Since(checkStart).Round(time.Millisecond))
		}(c)
	}

	wg.Wait()
	close(errCh)

	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Println("error:", err)
		}
		return fmt.Errorf("check failed")
	}

	fmt.Printf("done (%s)\n", time.Since(start).Round(time.Millisecond))
	return nil
}

// runGofmt fails when any package file is not gofmt-clean
func runGofmt() error {
	var out bytes.Buffer
	cmd := exec.Command("gofmt", "-l", "cmd", "internal")
	cmd.Stdout = &out
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return err
	}

	files := strings.Fields(out.String())
	if len(files) > 0 {
		return fmt.Errorf("unformatted files: %s", strings.Join(files, ", "))
	}
	return nil
}
