package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/stemsi/student-portal/internal/config"
	"github.com/stemsi/student-portal/internal/database"
	"github.com/stemsi/student-portal/internal/logger"
	"github.com/stemsi/student-portal/internal/model"
	"github.com/stemsi/student-portal/internal/repository"
	"github.com/stemsi/student-portal/internal/service"
)

var courses = []string{"Computer Science", "Mathematics", "Physics", "Biology", "Economics"}

var names = []string{
	"Budi Santoso", "Siti Aminah", "Andi Pratama", "Rina Wati", "Joko Susilo",
	"Ayu Lestari", "Dodi Kusuma", "Eka Putri", "Fahri Hamzah", "Gita Savitri",
	"Hendra Gunawan", "Ika Sari", "Jamal Mirdad", "Kiki Fatmala", "Lukman Hakim",
	"Maya Septiana", "Nanda Pratama", "Oki Setiana", "Putri Dian", "Qori Maharani",
	"Rafi Ahmad", "Siska Saraswati", "Toni Setiawan", "Umi Kalsum", "Vina Panduwinata",
	"Wahyu Hidayat", "Xena Maharani", "Yudi Pratama", "Zaki Anwar", "Alifia Zahra",
	"Bagas Saputra", "Citra Kirana", "Dimas Anggara", "Elisa Novita", "Fikri Maulana",
	"Gali Rakasiwi", "Hani Hanifah", "Iqbal Ramadhan", "Jasmine Azzahra", "Kevin Sanjaya",
	"Larasati Dewi", "Miko Pambudi", "Nia Ramadhani", "Oscar Lawalata", "Puput Melati",
	"Reza Rahadian", "Sari Nila", "Tigor Siahaan", "Utari Maharani", "Vicky Prasetyo",
}

func main() {
	count := flag.Int("n", len(names), "Number of students to seed")
	flag.Parse()
	if *count > len(names) {
		*count = len(names)
	}

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	store, err := database.OpenStudentStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.StoreDriver).Msg("Failed to open student store")
	}
	defer store.Close()

	studentService := service.NewStudentService(store.Repo, log)

	fmt.Printf("=== Seeding %d Students (%s) ===\n", *count, store.Driver)

	created, skipped := 0, 0
	for i := 0; i < *count; i++ {
		in := studentInput(i)
		if _, err := studentService.Create(ctx, in); err != nil {
			if errors.Is(err, repository.ErrDuplicateStudentID) {
				skipped++
				continue
			}
			fmt.Printf("Error creating student %s %s (%s): %v\n", in.FirstName, in.LastName, in.StudentID, err)
			continue
		}
		created++
		if created%10 == 0 {
			fmt.Printf("Created %d students...\n", created)
		}
	}

	fmt.Printf("\nSeed completed! Added %d/%d students, %d already present.\n", created, *count, skipped)
}

func studentInput(i int) model.StudentInput {
	first, last, _ := strings.Cut(names[i], " ")
	return model.StudentInput{
		FirstName: first,
		LastName:  last,
		Email:     fmt.Sprintf("%s.%s@example.com", strings.ToLower(first), strings.ToLower(last)),
		StudentID: fmt.Sprintf("STU%05d", i+1),
		Course:    courses[i%len(courses)],
		Year:      fmt.Sprintf("%d", i%4+1),
		GPA:       fmt.Sprintf("%.1f", 2.0+float64(i%21)/10),
		Status:    model.StatusActive,
	}
}
