// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"howudoin/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumGroups   int
	NumMessages int
	ShouldClean bool
}

// Seeder builds domain entities and persists them to the database.
type Seeder struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewSeeder creates a new Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Seeder{db: db, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Seed populates the database with test data
func (s *Seeder) Seed(opts Options) error {
	log.Printf("Seeding %d users, %d groups, %d messages...", opts.NumUsers, opts.NumGroups, opts.NumMessages)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	users, err := s.CreateUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("Created %d users", len(users))

	friends, err := s.CreateFriendships(users)
	if err != nil {
		return fmt.Errorf("failed to create friendships: %w", err)
	}
	log.Printf("Created %d friendship edges", friends)

	groups, err := s.CreateGroups(users, opts.NumGroups)
	if err != nil {
		return fmt.Errorf("failed to create groups: %w", err)
	}
	log.Printf("Created %d groups", len(groups))

	if err := s.CreateMessages(groups, opts.NumMessages); err != nil {
		return fmt.Errorf("failed to create messages: %w", err)
	}
	log.Printf("Created %d direct and group messages", opts.NumMessages)

	return nil
}

// ClearAll truncates every seeded table.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE group_messages, messages, group_memberships, groups, friendships, users RESTART IDENTITY CASCADE;`
	return s.db.Exec(sql).Error
}

// CreateUsers inserts n fake users. Every seeded user has the password
// "password123" and a verified email.
func (s *Seeder) CreateUsers(n int) ([]models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		first := gofakeit.FirstName()
		last := gofakeit.LastName()
		users = append(users, models.User{
			FirstName:     first,
			LastName:      last,
			Email:         fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), i),
			Password:      string(hashed),
			EmailVerified: true,
		})
	}

	if err := s.db.CreateInBatches(&users, 100).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// CreateFriendships links each user with a handful of others. Most edges are
// accepted so messaging works out of the box; some stay pending or rejected.
func (s *Seeder) CreateFriendships(users []models.User) (int, error) {
	statuses := []models.FriendshipStatus{
		models.FriendshipStatusAccepted,
		models.FriendshipStatusAccepted,
		models.FriendshipStatusAccepted,
		models.FriendshipStatusPending,
		models.FriendshipStatusRejected,
	}

	created := 0
	seen := map[string]bool{}
	for i := range users {
		edges := 2 + s.rng.Intn(4)
		for e := 0; e < edges; e++ {
			j := s.rng.Intn(len(users))
			if j == i {
				continue
			}
			key := models.FriendshipPairKey(users[i].ID, users[j].ID)
			if seen[key] {
				continue
			}
			seen[key] = true

			friendship := models.Friendship{
				RequesterID: users[i].ID,
				AddresseeID: users[j].ID,
				Status:      statuses[s.rng.Intn(len(statuses))],
			}
			if err := s.db.Create(&friendship).Error; err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}

// CreateGroups builds n groups, each owned by a random user with a random
// slice of the user base as members.
func (s *Seeder) CreateGroups(users []models.User, n int) ([]models.Group, error) {
	groups := make([]models.Group, 0, n)
	for i := 0; i < n; i++ {
		creator := users[s.rng.Intn(len(users))]
		group := models.Group{
			Name:      fmt.Sprintf("%s %s", gofakeit.HackerAdjective(), gofakeit.NounAbstract()),
			CreatorID: creator.ID,
		}

		memberIDs := map[uint]bool{creator.ID: true}
		size := 2 + s.rng.Intn(6)
		for len(memberIDs) < size {
			memberIDs[users[s.rng.Intn(len(users))].ID] = true
		}

		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&group).Error; err != nil {
				return err
			}
			for id := range memberIDs {
				if err := tx.Create(&models.GroupMembership{GroupID: group.ID, UserID: id}).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// CreateMessages fills conversations between accepted friends and posts
// chatter into the seeded groups.
func (s *Seeder) CreateMessages(groups []models.Group, n int) error {
	var accepted []models.Friendship
	if err := s.db.Where("status = ?", models.FriendshipStatusAccepted).Find(&accepted).Error; err != nil {
		return err
	}

	statuses := []models.MessageStatus{
		models.MessageStatusSent,
		models.MessageStatusDelivered,
		models.MessageStatusRead,
	}

	for i := 0; i < n; i++ {
		// Roughly one in three messages goes to a group.
		if len(groups) > 0 && s.rng.Intn(3) == 0 {
			group := groups[s.rng.Intn(len(groups))]
			var members []models.GroupMembership
			if err := s.db.Where("group_id = ?", group.ID).Find(&members).Error; err != nil {
				return err
			}
			if len(members) == 0 {
				continue
			}
			msg := models.GroupMessage{
				GroupID:  group.ID,
				SenderID: members[s.rng.Intn(len(members))].UserID,
				Content:  gofakeit.Sentence(4 + s.rng.Intn(10)),
			}
			if err := s.db.Create(&msg).Error; err != nil {
				return err
			}
			continue
		}

		if len(accepted) == 0 {
			continue
		}
		edge := accepted[s.rng.Intn(len(accepted))]
		senderID, receiverID := edge.RequesterID, edge.AddresseeID
		if s.rng.Intn(2) == 0 {
			senderID, receiverID = receiverID, senderID
		}
		msg := models.Message{
			SenderID:   senderID,
			ReceiverID: receiverID,
			Content:    gofakeit.Sentence(4 + s.rng.Intn(10)),
			Status:     statuses[s.rng.Intn(len(statuses))],
		}
		if err := s.db.Create(&msg).Error; err != nil {
			return err
		}
	}
	return nil
}
