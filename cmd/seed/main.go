// Package main provides a tool to seed the database with demo reading data.
//
// It creates a few users with profiles, fills their reading lists, connects
// them into a circle, and exchanges recommendations so the API has something
// to show during development.
//
// Usage:
//
//	DATA_PATH=~/nextchapter go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/nextchapterapp/nextchapter-server/internal/auth"
	"github.com/nextchapterapp/nextchapter-server/internal/domain"
	"github.com/nextchapterapp/nextchapter-server/internal/id"
	"github.com/nextchapterapp/nextchapter-server/internal/store/sqlite"
)

type seedUser struct {
	email       string
	username    string
	displayName string
	userID      string
}

func main() {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/nextchapter")
	}
	if err := os.MkdirAll(dataPath, 0o755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dataPath, "nextchapter.db")
	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := sqlite.Open(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	users := []*seedUser{
		{email: "alice@example.com", username: "alice_reads", displayName: "Alice"},
		{email: "bram@example.com", username: "brams_backlog", displayName: "Bram"},
		{email: "casey@example.com", username: "casey_audio", displayName: "Casey"},
	}

	for _, u := range users {
		createUser(ctx, s, u)
	}

	alice, bram, casey := users[0], users[1], users[2]

	seedBooks(ctx, s, alice.userID)
	connect(ctx, s, alice, bram)
	connect(ctx, s, alice, casey)
	recommend(ctx, s, bram.userID, alice.userID, "The Spear Cuts Through Water", "Simon Jimenez")
	recommend(ctx, s, casey.userID, alice.userID, "Project Hail Mary", "Andy Weir")

	fmt.Println("Seed complete. Log in as alice@example.com / password123!")
}

func createUser(ctx context.Context, s *sqlite.Store, u *seedUser) {
	hash, err := auth.HashPassword("password123!")
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		log.Fatalf("Failed to generate user ID: %v", err)
	}

	now := time.Now()
	err = s.CreateUser(ctx, &domain.User{
		ID:           userID,
		Email:        u.email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		log.Fatalf("Failed to create user %s: %v", u.email, err)
	}

	profileID, err := id.Generate("prof")
	if err != nil {
		log.Fatalf("Failed to generate profile ID: %v", err)
	}

	err = s.CreateProfile(ctx, &domain.Profile{
		ID:          profileID,
		UserID:      userID,
		Username:    u.username,
		DisplayName: u.displayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		log.Fatalf("Failed to create profile %s: %v", u.username, err)
	}

	u.userID = userID
	fmt.Printf("Created user %s (%s)\n", u.email, u.username)
}

func seedBooks(ctx context.Context, s *sqlite.Store, userID string) {
	type entry struct {
		title, author string
		status        domain.BookStatus
		finishedAgo   time.Duration
	}

	books := []entry{
		{"The Dispossessed", "Ursula K. Le Guin", domain.StatusWantToRead, 0},
		{"A Memory Called Empire", "Arkady Martine", domain.StatusWantToRead, 0},
		{"The Fifth Season", "N. K. Jemisin", domain.StatusWantToRead, 0},
		{"Middlemarch", "George Eliot", domain.StatusCurrentlyReading, 0},
		{"Piranesi", "Susanna Clarke", domain.StatusHaveRead, 40 * 24 * time.Hour},
		{"Annihilation", "Jeff VanderMeer", domain.StatusHaveRead, 200 * 24 * time.Hour},
	}

	positions := map[domain.BookStatus]int{}
	for _, b := range books {
		bookID, err := id.Generate("book")
		if err != nil {
			log.Fatalf("Failed to generate book ID: %v", err)
		}

		now := time.Now()
		book := &domain.Book{
			ID:        bookID,
			UserID:    userID,
			Title:     b.title,
			Author:    b.author,
			Status:    b.status,
			Position:  positions[b.status],
			CreatedAt: now,
			UpdatedAt: now,
		}
		positions[b.status]++

		if b.status == domain.StatusHaveRead {
			finished := now.Add(-b.finishedAgo)
			book.CompletedAt = &finished
			book.ConsumptionType = domain.ConsumptionRead
		}

		if err := s.CreateBook(ctx, book); err != nil {
			log.Fatalf("Failed to create book %q: %v", b.title, err)
		}
	}

	fmt.Printf("Seeded %d books\n", len(books))
}

func connect(ctx context.Context, s *sqlite.Store, from, to *seedUser) {
	inviteID, err := id.Generate("inv")
	if err != nil {
		log.Fatalf("Failed to generate invite ID: %v", err)
	}

	now := time.Now()
	invite := &domain.CircleInvite{
		ID:         inviteID,
		FromUserID: from.userID,
		ToUserID:   to.userID,
		Status:     domain.InviteAccepted,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	connID, err := id.Generate("conn")
	if err != nil {
		log.Fatalf("Failed to generate connection ID: %v", err)
	}

	a, b := domain.OrderPair(from.userID, to.userID)
	conn := &domain.Connection{
		ID:        connID,
		UserAID:   a,
		UserBID:   b,
		CreatedAt: now,
	}

	if err := s.CreateInvite(ctx, invite); err != nil {
		log.Fatalf("Failed to create invite: %v", err)
	}
	if err := s.AcceptInvite(ctx, invite, conn); err != nil {
		log.Fatalf("Failed to create connection: %v", err)
	}

	fmt.Printf("Connected %s and %s\n", from.username, to.username)
}

func recommend(ctx context.Context, s *sqlite.Store, fromID, toID, title, author string) {
	recID, err := id.Generate("rec")
	if err != nil {
		log.Fatalf("Failed to generate recommendation ID: %v", err)
	}

	now := time.Now()
	err = s.CreateRecommendation(ctx, &domain.Recommendation{
		ID:         recID,
		FromUserID: fromID,
		ToUserID:   toID,
		BookTitle:  title,
		BookAuthor: author,
		Note:       "Thought of you when I finished this one.",
		Status:     domain.RecommendationPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		log.Fatalf("Failed to create recommendation: %v", err)
	}

	fmt.Printf("Recommended %q\n", title)
}
