package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"teamhub/internal/database"
	"teamhub/internal/models"
	"teamhub/internal/repositories"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const seedCoachEmail = "coach@teamhub.local"

func init() {
	var password string
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo roster, schedule and content for development",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, closeFn, err := openDB()
			if err != nil {
				return err
			}
			defer closeFn()

			if err := database.AutoMigrate(db); err != nil {
				return err
			}
			return seed(cmd.Context(), db, password, cmd.OutOrStdout())
		},
	}
	seedCmd.Flags().StringVarP(&password, "password", "p", "changeme123", "Password for the seeded head coach account")
	rootCmd.AddCommand(seedCmd)
}

type seedPlayer struct {
	first, last, email string
	gender             models.Gender
	year               models.ClassYear
	captain            bool
}

var seedPlayers = []seedPlayer{
	{"Alex", "Lee", "alex.lee@teamhub.local", models.GenderMale, models.ClassJunior, true},
	{"Sam", "Ortiz", "sam.ortiz@teamhub.local", models.GenderMale, models.ClassSophomore, false},
	{"Jordan", "Kim", "jordan.kim@teamhub.local", models.GenderMale, models.ClassFreshman, false},
	{"Maya", "Patel", "maya.patel@teamhub.local", models.GenderFemale, models.ClassSenior, true},
	{"Riley", "Chen", "riley.chen@teamhub.local", models.GenderFemale, models.ClassJunior, false},
	{"Nora", "Walsh", "nora.walsh@teamhub.local", models.GenderFemale, models.ClassFreshman, false},
}

// seed inserts demo data once. A second run is a no-op.
func seed(ctx context.Context, db *gorm.DB, password string, out io.Writer) error {
	staffRepo := repositories.NewStaffRepository(db)
	if _, err := staffRepo.FindByEmail(ctx, seedCoachEmail); err == nil {
		fmt.Fprintln(out, "already seeded, skipping")
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		staffRepo := repositories.NewStaffRepository(tx)
		tagRepo := repositories.NewTagRepository(tx)
		playerRepo := repositories.NewPlayerRepository(tx)
		userRepo := repositories.NewUserRepository(tx)
		eventRepo := repositories.NewEventRepository(tx)
		announcementRepo := repositories.NewAnnouncementRepository(tx)
		formRepo := repositories.NewFormRepository(tx)
		tripRepo := repositories.NewTripRepository(tx)

		coach := &models.Staff{
			FirstName: "Pat",
			LastName:  "Morgan",
			Email:     seedCoachEmail,
			Title:     "Head Coach",
			Role:      models.StaffHeadCoach,
		}
		if err := staffRepo.Create(ctx, coach); err != nil {
			return fmt.Errorf("create staff: %w", err)
		}

		account := &models.User{Email: coach.Email, Name: "Pat Morgan"}
		if err := account.SetPassword(password); err != nil {
			return err
		}
		if err := userRepo.RegisterFromRoster(ctx, account); err != nil {
			return fmt.Errorf("create coach account: %w", err)
		}
		fmt.Fprintf(out, "head coach account: %s (role %s)\n", account.Email, account.Role)

		travel := &models.Tag{Name: "Travel Squad", Color: "#f59e0b"}
		if err := tagRepo.Create(ctx, travel); err != nil {
			return fmt.Errorf("create tag: %w", err)
		}

		var players []models.Player
		for i, sp := range seedPlayers {
			year := sp.year
			p := models.Player{
				FirstName: sp.first,
				LastName:  sp.last,
				Email:     sp.email,
				Gender:    sp.gender,
				ClassYear: &year,
				IsCaptain: sp.captain,
				IsActive:  true,
			}
			if err := playerRepo.Create(ctx, &p); err != nil {
				return fmt.Errorf("create player %s: %w", sp.email, err)
			}
			if i%2 == 0 {
				if err := playerRepo.AddTag(ctx, p.ID, travel.ID); err != nil {
					return err
				}
			}
			players = append(players, p)
		}
		fmt.Fprintf(out, "roster: %d players\n", len(players))

		today := models.DateOf(time.Now())
		start, end, court := "15:00", "17:00", "Varsity Courts"
		practice := &models.Event{
			Title:     "Team Practice",
			EventType: models.EventPractice,
			EventDate: today.AddDate(0, 0, 1),
			StartTime: &start,
			EndTime:   &end,
			Location:  &court,
			ForMens:   true,
			ForWomens: true,
		}
		match := &models.Event{
			Title:     "vs. State",
			EventType: models.EventMatch,
			EventDate: today.AddDate(0, 0, 6),
			ForMens:   true,
			ForWomens: true,
			MatchDetails: &models.MatchDetails{
				Opponent: "State University",
				HomeAway: models.Home,
			},
		}
		for _, e := range []*models.Event{practice, match} {
			if err := eventRepo.Create(ctx, e); err != nil {
				return fmt.Errorf("create event: %w", err)
			}
		}

		if err := announcementRepo.Create(ctx, &models.Announcement{
			Title:     "Welcome to the new season",
			Content:   "Check the schedule for practice times and fill out the travel form.",
			Priority:  models.PriorityHigh,
			ForMens:   true,
			ForWomens: true,
			PublishAt: time.Now(),
		}); err != nil {
			return fmt.Errorf("create announcement: %w", err)
		}

		due := today.AddDate(0, 0, 5)
		form := &models.Form{
			Title:      "Travel availability",
			DueDate:    &due,
			IsActive:   true,
			ForMens:    true,
			ForWomens:  true,
			TargetTags: models.Int64List{travel.ID},
			Questions: []models.FormQuestion{
				{QuestionText: "Can you travel on the trip dates?", QuestionType: models.QuestionBoolean, Options: models.StringList{}, IsRequired: true, SortOrder: 0},
				{QuestionText: "Dietary restrictions", QuestionType: models.QuestionText, Options: models.StringList{}, SortOrder: 1},
			},
		}
		if err := formRepo.Create(ctx, form); err != nil {
			return fmt.Errorf("create form: %w", err)
		}

		trip := &models.Trip{
			Name:          "Spring Invitational",
			Destination:   "Austin, TX",
			DepartureDate: today.AddDate(0, 0, 14),
			ReturnDate:    today.AddDate(0, 0, 16),
			MaxMen:        6,
			MaxWomen:      6,
		}
		if err := tripRepo.Create(ctx, trip); err != nil {
			return fmt.Errorf("create trip: %w", err)
		}
		for _, p := range players {
			if err := tripRepo.SetRosterStatus(ctx, trip.ID, p.ID, models.TripPending); err != nil {
				return err
			}
		}

		fmt.Fprintln(out, "seed complete")
		return nil
	})
}
