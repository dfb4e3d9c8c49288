package commands

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/cheachwood/GitOnBoard/board"
	"github.com/cheachwood/GitOnBoard/errors"
)

// SeedCmd populates the registry with a demo dataset
var SeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the registry with a demo dataset",
	Long: `Create twenty demo job postings across two authors, with a mix of
assigned candidates, in-progress and completed jobs, and a couple of
deactivated postings. Intended for an empty database.`,
	RunE: runSeed,
}

var seedDBPath string

func init() {
	SeedCmd.Flags().StringVar(&seedDBPath, "db-path", "", "Custom database path (overrides config)")
}

// Demo identities. Two authors split the postings; a third identity
// applies to jobs as the candidate.
const (
	seedAuthorA   = "alice"
	seedAuthorB   = "bob"
	seedCandidate = "carol"
)

type seedCandidateInfo struct {
	name  string
	email string
}

var seedCandidates = []seedCandidateInfo{
	{"Alice Martin", "alice.martin@mail.com"},
	{"Bob Dupont", "bob.dupont@mail.com"},
	{"Charlie Bernard", "charlie.bernard@mail.com"},
	{"Diana Laurent", "diana.laurent@mail.com"},
	{"Ethan Moreau", "ethan.moreau@mail.com"},
	{"Fiona Petit", "fiona.petit@mail.com"},
}

type seedJob struct {
	author      string
	rate        int64
	description string
	candidate   int            // index into seedCandidates, -1 for none
	statuses    []board.Status // applied in order after assignment
	toggle      bool
}

var seedJobs = []seedJob{
	{seedAuthorA, 500, "Développeur React Senior - Projet e-commerce", -1, nil, false},
	{seedAuthorA, 600, "Développeur Solidity - Smart contracts DeFi", 0, nil, false},
	{seedAuthorA, 550, "Designer UI/UX - Application mobile", 1, []board.Status{board.StatusInProgress}, false},
	{seedAuthorA, 700, "Chef de projet Web3 - Plateforme NFT", 2, []board.Status{board.StatusInProgress, board.StatusCompleted}, false},
	{seedAuthorA, 450, "Développeur Full-Stack - Marketplace décentralisée", -1, nil, false},
	{seedAuthorA, 800, "Consultant Blockchain - Audit smart contracts", 3, []board.Status{board.StatusInProgress}, false},
	{seedAuthorA, 520, "Développeur Frontend Vue.js - Dashboard analytics", -1, nil, true},
	{seedAuthorA, 480, "Développeur Backend Node.js - API REST", -1, nil, false},
	{seedAuthorB, 650, "DevOps Engineer - Infrastructure cloud", -1, nil, false},
	{seedAuthorB, 720, "Développeur React Native - Application fintech", 4, nil, false},
	{seedAuthorB, 590, "Data Scientist - Machine Learning", 5, []board.Status{board.StatusInProgress}, false},
	{seedAuthorB, 850, "Développeur Python - Automatisation", 0, []board.Status{board.StatusInProgress, board.StatusCompleted}, false},
	{seedAuthorB, 500, "Architecte Logiciel - Microservices", -1, nil, false},
	{seedAuthorB, 670, "Ingénieur Sécurité - Pentest applications", 1, []board.Status{board.StatusInProgress}, false},
	{seedAuthorB, 530, "Développeur Angular - Portail client", -1, nil, false},
	{seedAuthorB, 610, "Tech Lead - Équipe blockchain", -1, nil, true},
	{seedAuthorB, 580, "Développeur Rust - Smart contracts Solana", 2, nil, false},
	{seedAuthorB, 490, "Product Owner - Produits Web3", -1, nil, false},
	{seedAuthorB, 740, "Scrum Master - Équipe agile", 3, []board.Status{board.StatusInProgress}, false},
	{seedAuthorB, 900, "QA Engineer - Tests automatisés", 4, []board.Status{board.StatusInProgress, board.StatusCompleted}, false},
}

func runSeed(cmd *cobra.Command, args []string) error {
	registry, database, err := openRegistry(seedDBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	existing, err := registry.ListJobs()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return errors.Newf("database already contains %d jobs, seed expects an empty board", len(existing))
	}

	pterm.Info.Printf("Seeding %d demo jobs...\n", len(seedJobs))

	for i, spec := range seedJobs {
		job, err := registry.CreateJob(spec.author, spec.rate, spec.description)
		if err != nil {
			return errors.Wrapf(err, "seed job %d", i+1)
		}

		if spec.candidate >= 0 {
			candidate := seedCandidates[spec.candidate]
			if _, err := registry.AssignCandidate(job.ID, seedCandidate, candidate.name, candidate.email); err != nil {
				return errors.Wrapf(err, "assign candidate to job %d", job.ID)
			}
		}

		for _, status := range spec.statuses {
			if _, err := registry.ChangeStatus(job.ID, spec.author, status); err != nil {
				return errors.Wrapf(err, "set job %d to %s", job.ID, status)
			}
		}

		if spec.toggle {
			if _, err := registry.ToggleActive(job.ID, spec.author); err != nil {
				return errors.Wrapf(err, "toggle job %d", job.ID)
			}
		}

		short := spec.description
		if cut := strings.Index(short, " - "); cut > 0 {
			short = short[:cut]
		}
		pterm.Debug.Printf("Job %d: %s\n", job.ID, short)
	}

	pterm.Success.Printf("Seeded %d jobs by %s and %s\n", len(seedJobs), seedAuthorA, seedAuthorB)
	return nil
}
