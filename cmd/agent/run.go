package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mcp-agent/internal/application/port/input"
	"mcp-agent/internal/infrastructure/userinteraction"
)

var runCmd = &cobra.Command{
	Use:   "run [task]",
	Short: "Run one agent task and print the final answer",
	Long: `Run one agent task through the LLM tool-calling loop. The task is taken from
the arguments, or read from stdin when none are given. Progress is printed to
stderr and the final answer to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		task := strings.TrimSpace(strings.Join(args, " "))
		if task == "" {
			fmt.Fprintln(cmd.ErrOrStderr(), "Enter a task for the agent:")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("failed to read task: %w", err)
			}
			task = strings.TrimSpace(line)
		}
		if task == "" {
			return errors.New("task is required")
		}
		systemPrompt, _ := cmd.Flags().GetString("system")
		quiet, _ := cmd.Flags().GetBool("quiet")

		ctx := cmd.Context()
		container, err := newContainer(ctx)
		if err != nil {
			return err
		}
		defer container.Close()

		opts := input.ExecuteOptions{SystemPrompt: systemPrompt}
		if !quiet {
			opts.Observer = userinteraction.NewConsolePresenter(cmd.ErrOrStderr())
		}

		container.Logger.Info("Task started", "task", task)
		result, err := container.TaskExecutor.Execute(ctx, task, opts)
		if err != nil {
			container.Logger.Error("Task failed", "error", err)
			return err
		}
		container.Logger.Info("Task completed", "iterations", result.Iterations)

		if !quiet {
			userinteraction.NewConsolePresenter(cmd.OutOrStdout()).ShowAnswer(result.FinalAnswer, result.Iterations)
			return nil
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), result.FinalAnswer)
		return err
	},
}

func init() {
	runCmd.Flags().String("system", "", "Replace the default system prompt")
	runCmd.Flags().BoolP("quiet", "q", false, "Print only the final answer")
}
