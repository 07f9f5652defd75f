package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scholarsphere-labs/scholar-cli/internal/core/domain"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage research projects",
	Long: `Create projects, record findings and questions, and inspect the
connections detected between thematically similar projects.`,
}

var (
	projectDescription string
	projectTags        []string
	projectStatus      string
	findingSource      string
	exportOutput       string
)

var projectCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a research project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectCreate,
}

var projectShowCmd = &cobra.Command{
	Use:   "show [project-id]",
	Short: "Show project details",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectShow,
}

var projectFindingCmd = &cobra.Command{
	Use:   "finding [project-id] [text]",
	Short: "Record a finding",
	Long: `Records a key finding on the project and checks it against every
other project for new thematic connections.`,
	Args: cobra.ExactArgs(2),
	RunE: runProjectFinding,
}

var projectQuestionCmd = &cobra.Command{
	Use:   "question [project-id] [text]",
	Short: "Record a research question",
	Args:  cobra.ExactArgs(2),
	RunE:  runProjectQuestion,
}

var projectStatusCmd = &cobra.Command{
	Use:   "status [project-id] [status]",
	Short: "Set project status (active, paused, completed, archived)",
	Args:  cobra.ExactArgs(2),
	RunE:  runProjectStatus,
}

var projectConnectionsCmd = &cobra.Command{
	Use:   "connections [project-id]",
	Short: "Show connected projects",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectConnections,
}

var projectSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search projects by text, tags and status",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProjectSearch,
}

var projectStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show activity counts across all projects",
	Args:  cobra.NoArgs,
	RunE:  runProjectStats,
}

var projectExportCmd = &cobra.Command{
	Use:   "export [project-id]",
	Short: "Export a project and its connections as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectExport,
}

func init() {
	projectCreateCmd.Flags().StringVarP(&projectDescription, "description", "d", "", "project description")
	projectCreateCmd.Flags().StringSliceVarP(&projectTags, "tags", "t", nil, "project tags")
	projectFindingCmd.Flags().StringVarP(&findingSource, "source", "s", "", "finding source citation")
	projectSearchCmd.Flags().StringSliceVarP(&projectTags, "tags", "t", nil, "required tags")
	projectSearchCmd.Flags().StringVar(&projectStatus, "status", "", "required status")
	projectExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write JSON to a file instead of stdout")

	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectFindingCmd)
	projectCmd.AddCommand(projectQuestionCmd)
	projectCmd.AddCommand(projectStatusCmd)
	projectCmd.AddCommand(projectConnectionsCmd)
	projectCmd.AddCommand(projectSearchCmd)
	projectCmd.AddCommand(projectStatsCmd)
	projectCmd.AddCommand(projectExportCmd)
	rootCmd.AddCommand(projectCmd)
}

func runProjectCreate(cmd *cobra.Command, args []string) error {
	if projectService == nil {
		return errors.New("project service not configured")
	}

	id, err := projectService.CreateProject(context.Background(), args[0], projectDescription, projectTags)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	cmd.Printf("Created project %s (%s)\n", args[0], id)
	return nil
}

func runProjectShow(cmd *cobra.Command, args []string) error {
	if projectService == nil {
		return errors.New("project service not configured")
	}

	project, err := projectService.GetProject(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get project: %w", err)
	}

	cmd.Printf("Project: %s\n\n", project.Name)
	cmd.Printf("  ID:          %s\n", project.ID)
	cmd.Printf("  Status:      %s\n", project.Status)
	if project.Description != "" {
		cmd.Printf("  Description: %s\n", project.Description)
	}
	if len(project.Tags) > 0 {
		cmd.Printf("  Tags:        %v\n", project.Tags)
	}
	cmd.Printf("  Created:     %s\n", project.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Updated:     %s\n", project.LastUpdated.Format("2006-01-02 15:04:05"))

	if len(project.Findings) > 0 {
		cmd.Println("\n  Findings:")
		for _, f := range project.Findings {
			if f.Source != "" {
				cmd.Printf("    - %s [%s]\n", f.Text, f.Source)
			} else {
				cmd.Printf("    - %s\n", f.Text)
			}
		}
	}
	if len(project.Questions) > 0 {
		cmd.Println("\n  Questions:")
		for _, q := range project.Questions {
			cmd.Printf("    - %s\n", q.Text)
		}
	}
	if len(project.Resources) > 0 {
		cmd.Println("\n  Resources:")
		for _, r := range project.Resources {
			cmd.Printf("    - %s (%s)\n", r.Name, r.Type)
		}
	}
	return nil
}

func runProjectFinding(cmd *cobra.Command, args []string) error {
	if projectService == nil {
		return errors.New("project service not configured")
	}

	if err := projectService.AddFinding(context.Background(), args[0], args[1], findingSource); err != nil {
		return fmt.Errorf("failed to add finding: %w", err)
	}
	cmd.Println("Finding recorded.")
	return nil
}

func runProjectQuestion(cmd *cobra.Command, args []string) error {
	if projectService == nil {
		return errors.New("project service not configured")
	}

	if err := projectService.AddQuestion(context.Background(), args[0], args[1]); err != nil {
		return fmt.Errorf("failed to add question: %w", err)
	}
	cmd.Println("Question recorded.")
	return nil
}

func runProjectStatus(cmd *cobra.Command, args []string) error {
	if projectService == nil {
		return errors.New("project service not configured")
	}

	status := domain.ProjectStatus(args[1])
	if err := projectService.SetStatus(context.Background(), args[0], status); err != nil {
		return fmt.Errorf("failed to set status: %w", err)
	}
	cmd.Printf("Project %s is now %s.\n", args[0], status)
	return nil
}

func runProjectConnections(cmd *cobra.Command, args []string) error {
	if projectService == nil {
		return errors.New("project service not configured")
	}

	connected, err := projectService.Connected(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get connections: %w", err)
	}

	if len(connected) == 0 {
		cmd.Println("No connections detected.")
		return nil
	}

	cmd.Println("Connected projects:")
	for _, p := range connected {
		cmd.Printf("  %s (%s)\n", p.Name, p.ID)
	}
	return nil
}

func runProjectSearch(cmd *cobra.Command, args []string) error {
	if projectService == nil {
		return errors.New("project service not configured")
	}

	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	projects, err := projectService.SearchProjects(
		context.Background(), query, projectTags, domain.ProjectStatus(projectStatus))
	if err != nil {
		return fmt.Errorf("failed to search projects: %w", err)
	}

	if len(projects) == 0 {
		cmd.Println("No projects matched.")
		return nil
	}

	for _, p := range projects {
		cmd.Printf("  %s  %-10s %s\n", p.ID, p.Status, p.Name)
	}
	cmd.Printf("Total: %d projects\n", len(projects))
	return nil
}

func runProjectStats(cmd *cobra.Command, _ []string) error {
	if projectService == nil {
		return errors.New("project service not configured")
	}

	summary, err := projectService.Analytics(context.Background())
	if err != nil {
		return fmt.Errorf("failed to compute analytics: %w", err)
	}

	cmd.Printf("Projects:    %d\n", summary.TotalProjects)
	for _, status := range []domain.ProjectStatus{
		domain.StatusActive, domain.StatusPaused, domain.StatusCompleted, domain.StatusArchived,
	} {
		if n := summary.ByStatus[status]; n > 0 {
			cmd.Printf("  %-10s %d\n", status, n)
		}
	}
	cmd.Printf("Findings:    %d\n", summary.TotalFindings)
	cmd.Printf("Questions:   %d\n", summary.TotalQuestions)
	cmd.Printf("Connections: %d\n", summary.TotalConnections)

	if len(summary.Projects) > 0 {
		cmd.Println("\nPer project:")
		for _, p := range summary.Projects {
			cmd.Printf("  %-30s %d findings, %d questions, %d connections\n",
				p.Name, p.Findings, p.Questions, p.Connections)
		}
	}
	return nil
}

func runProjectExport(cmd *cobra.Command, args []string) error {
	if projectService == nil {
		return errors.New("project service not configured")
	}

	export, err := projectService.Export(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to export project: %w", err)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}

	if exportOutput == "" {
		cmd.Println(string(data))
		return nil
	}
	if err := os.WriteFile(exportOutput, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	cmd.Printf("Exported project %s to %s\n", args[0], exportOutput)
	return nil
}
