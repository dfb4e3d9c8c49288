package commands

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/cheachwood/GitOnBoard/board"
	"github.com/cheachwood/GitOnBoard/errors"
)

// JobCmd groups the job posting subcommands
var JobCmd = &cobra.Command{
	Use:   "job",
	Short: "Create, inspect and manage job postings",
	Long: `job — Manage job postings

Mutations need a caller identity supplied with --as; the registry
enforces who may do what (authors edit their own jobs, the board owner
may additionally toggle visibility).

Examples:
  jobboard job create --as alice --rate 500 --description "Backend dev"
  jobboard job ls
  jobboard job ls --active
  jobboard job get 3
  jobboard job assign 3 --as bob --name "Bob Dupont" --email bob@mail.com
  jobboard job status 3 --as alice --to InProgress
  jobboard job toggle 3 --as alice`,
}

var (
	jobAsFlag          string
	jobRateFlag        int64
	jobDescriptionFlag string
	jobActiveFlag      bool
	jobNameFlag        string
	jobEmailFlag       string
	jobStatusFlag      string
)

var jobCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new job posting",
	RunE:  runJobCreate,
}

var jobLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List job postings",
	RunE:  runJobLs,
}

var jobGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a single job posting",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobGet,
}

var jobUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a job's rate and description (author only)",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobUpdate,
}

var jobAssignCmd = &cobra.Command{
	Use:   "assign <id>",
	Short: "Apply to an open job as its candidate",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobAssign,
}

var jobStatusCmd = &cobra.Command{
	Use:   "status <id>",
	Short: "Move a job along its lifecycle (author only)",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobStatus,
}

var jobToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a job's active flag (author or board owner)",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobToggle,
}

func init() {
	JobCmd.PersistentFlags().StringVar(&jobAsFlag, "as", "", "Caller identity for mutations")

	jobCreateCmd.Flags().Int64Var(&jobRateFlag, "rate", 0, "Daily rate (must be positive)")
	jobCreateCmd.Flags().StringVar(&jobDescriptionFlag, "description", "", "Job description")

	jobLsCmd.Flags().BoolVar(&jobActiveFlag, "active", false, "Only show active jobs")

	jobUpdateCmd.Flags().Int64Var(&jobRateFlag, "rate", 0, "Daily rate (must be positive)")
	jobUpdateCmd.Flags().StringVar(&jobDescriptionFlag, "description", "", "Job description")

	jobAssignCmd.Flags().StringVar(&jobNameFlag, "name", "", "Candidate display name")
	jobAssignCmd.Flags().StringVar(&jobEmailFlag, "email", "", "Candidate contact email")

	jobStatusCmd.Flags().StringVar(&jobStatusFlag, "to", "", "Target status (Open, InProgress, Completed, Cancelled) or ordinal")

	JobCmd.AddCommand(jobCreateCmd)
	JobCmd.AddCommand(jobLsCmd)
	JobCmd.AddCommand(jobGetCmd)
	JobCmd.AddCommand(jobUpdateCmd)
	JobCmd.AddCommand(jobAssignCmd)
	JobCmd.AddCommand(jobStatusCmd)
	JobCmd.AddCommand(jobToggleCmd)
}

func parseJobID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, errors.Newf("invalid job id: %s", arg)
	}
	return id, nil
}

// parseTargetStatus accepts a status name or its ordinal.
func parseTargetStatus(raw string) (board.Status, error) {
	if status, ok := board.ParseStatus(raw); ok {
		return status, nil
	}
	if ordinal, err := strconv.Atoi(raw); err == nil {
		return board.Status(ordinal), nil
	}
	return 0, errors.Newf("unknown status: %s", raw)
}

func runJobCreate(cmd *cobra.Command, args []string) error {
	registry, database, err := openRegistry("")
	if err != nil {
		return err
	}
	defer database.Close()

	job, err := registry.CreateJob(jobAsFlag, jobRateFlag, jobDescriptionFlag)
	if err != nil {
		return err
	}

	pterm.Success.Printf("Created job %d (rate %d/day)\n", job.ID, job.DailyRate)
	return nil
}

func runJobLs(cmd *cobra.Command, args []string) error {
	registry, database, err := openRegistry("")
	if err != nil {
		return err
	}
	defer database.Close()

	var jobs []*board.Job
	if jobActiveFlag {
		jobs, err = registry.ListActiveJobs()
	} else {
		jobs, err = registry.ListJobs()
	}
	if err != nil {
		return err
	}

	if len(jobs) == 0 {
		pterm.Info.Println("No jobs")
		return nil
	}

	rows := pterm.TableData{{"ID", "Status", "Active", "Rate", "Author", "Candidate", "Description"}}
	for _, job := range jobs {
		active := "yes"
		if !job.IsActive {
			active = "no"
		}
		candidate := job.CandidateName
		if candidate == "" {
			candidate = "-"
		}
		rows = append(rows, []string{
			strconv.FormatInt(job.ID, 10),
			job.Status.String(),
			active,
			strconv.FormatInt(job.DailyRate, 10),
			job.Author,
			candidate,
			job.Description,
		})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func runJobGet(cmd *cobra.Command, args []string) error {
	id, err := parseJobID(args[0])
	if err != nil {
		return err
	}

	registry, database, err := openRegistry("")
	if err != nil {
		return err
	}
	defer database.Close()

	job, err := registry.GetJob(id)
	if err != nil {
		return err
	}

	fmt.Printf("Job %d\n", job.ID)
	fmt.Printf("  Status:      %s\n", job.Status)
	fmt.Printf("  Active:      %t\n", job.IsActive)
	fmt.Printf("  Daily Rate:  %d\n", job.DailyRate)
	fmt.Printf("  Author:      %s\n", job.Author)
	fmt.Printf("  Created:     %s\n", job.CreationDate.Format("2006-01-02 15:04:05"))
	fmt.Printf("  Description: %s\n", job.Description)
	if job.HasCandidate() {
		fmt.Printf("  Candidate:   %s (%s, %s)\n", job.Candidate, job.CandidateName, job.CandidateEmail)
	}
	return nil
}

func runJobUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseJobID(args[0])
	if err != nil {
		return err
	}

	registry, database, err := openRegistry("")
	if err != nil {
		return err
	}
	defer database.Close()

	job, err := registry.UpdateJob(id, jobAsFlag, jobRateFlag, jobDescriptionFlag)
	if err != nil {
		return err
	}

	pterm.Success.Printf("Updated job %d\n", job.ID)
	return nil
}

func runJobAssign(cmd *cobra.Command, args []string) error {
	id, err := parseJobID(args[0])
	if err != nil {
		return err
	}

	registry, database, err := openRegistry("")
	if err != nil {
		return err
	}
	defer database.Close()

	job, err := registry.AssignCandidate(id, jobAsFlag, jobNameFlag, jobEmailFlag)
	if err != nil {
		return err
	}

	pterm.Success.Printf("Assigned %s to job %d\n", job.CandidateName, job.ID)
	return nil
}

func runJobStatus(cmd *cobra.Command, args []string) error {
	id, err := parseJobID(args[0])
	if err != nil {
		return err
	}
	target, err := parseTargetStatus(jobStatusFlag)
	if err != nil {
		return err
	}

	registry, database, err := openRegistry("")
	if err != nil {
		return err
	}
	defer database.Close()

	job, err := registry.ChangeStatus(id, jobAsFlag, target)
	if err != nil {
		return err
	}

	pterm.Success.Printf("Job %d is now %s\n", job.ID, job.Status)
	return nil
}

func runJobToggle(cmd *cobra.Command, args []string) error {
	id, err := parseJobID(args[0])
	if err != nil {
		return err
	}

	registry, database, err := openRegistry("")
	if err != nil {
		return err
	}
	defer database.Close()

	job, err := registry.ToggleActive(id, jobAsFlag)
	if err != nil {
		return err
	}

	state := "active"
	if !job.IsActive {
		state = "inactive"
	}
	pterm.Success.Printf("Job %d is now %s\n", job.ID, state)
	return nil
}
