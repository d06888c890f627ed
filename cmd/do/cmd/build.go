package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"
)

func BuildCmd() *cobra.Command {
	var (
		output string
		goos   string
		goarch string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a static server binary for deployment",
		RunE: func(cmd *cobra.Command, args []string) error {
			return buildServer(output, goos, goarch)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "bin/server", "Output path")
	cmd.Flags().StringVar(&goos, "os", "linux", "Target GOOS")
	cmd.Flags().StringVar(&goarch, "arch", "amd64", "Target GOARCH")
	return cmd
}

func buildServer(output, goos, goarch string) error {
	if _, err := exec.LookPath("go"); err != nil {
		return fmt.Errorf("missing required binary: go")
	}

	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	fmt.Printf("==> Building %s for %s/%s...\n", output, goos, goarch)

	// modernc sqlite is pure Go, so the binary builds without cgo
	build := exec.Command("go", "build", "-trimpath", "-ldflags", "-s -w", "-o", output, "./cmd/server")
	build.Env = append(os.Environ(), "CGO_ENABLED=0", "GOOS="+goos, "GOARCH="+goarch)
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		return fmt.Errorf("go build failed: %w", err)
	}

	fmt.Println("==> Done!")
	return nil
}
