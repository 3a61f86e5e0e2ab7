// Seeds the database with a few accounts and sample sentences for local
// development. Safe to run repeatedly.
package main

import (
	"context"
	"errors"

	"mt_annotate/internal/common"
	"mt_annotate/internal/common/security"
	"mt_annotate/internal/domain/model"
	"mt_annotate/internal/domain/repository"
	"mt_annotate/internal/platform/config"
	"mt_annotate/internal/platform/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type seedUser struct {
	email       string
	username    string
	firstName   string
	lastName    string
	password    string
	isAdmin     bool
	isEvaluator bool
	languages   []string
}

var seedUsers = []seedUser{
	{
		email: "admin@example.com", username: "admin",
		firstName: "Admin", lastName: "User", password: "admin123",
		isAdmin: true, languages: []string{"tagalog"},
	},
	{
		email: "annotator@example.com", username: "annotator",
		firstName: "Ana", lastName: "Santos", password: "annotator123",
		languages: []string{"tagalog", "cebuano"},
	},
	{
		email: "evaluator@example.com", username: "evaluator",
		firstName: "Eva", lastName: "Reyes", password: "evaluator123",
		isEvaluator: true, languages: []string{"tagalog"},
	},
}

var seedSentences = []model.Sentence{
	{
		SourceText:         "The weather is nice today.",
		MachineTranslation: "Maganda ang panahon ngayon.",
		SourceLanguage:     "english", TargetLanguage: "tagalog",
	},
	{
		SourceText:         "Where is the nearest hospital?",
		MachineTranslation: "Saan ang pinakamalapit na ospital?",
		SourceLanguage:     "english", TargetLanguage: "tagalog",
	},
	{
		SourceText:         "I would like to order food.",
		MachineTranslation: "Gusto kong umorder ng pagkain.",
		SourceLanguage:     "english", TargetLanguage: "tagalog",
	},
	{
		SourceText:         "The meeting starts at three in the afternoon.",
		MachineTranslation: "Magsisimula ang pulong ng alas tres ng hapon.",
		SourceLanguage:     "english", TargetLanguage: "tagalog",
	},
	{
		SourceText:         "Please take this medicine twice a day.",
		MachineTranslation: "Inoma kini nga tambal kaduha sa usa ka adlaw.",
		SourceLanguage:     "english", TargetLanguage: "cebuano",
	},
	{
		SourceText:         "How much does this cost?",
		MachineTranslation: "Tagpila kini?",
		SourceLanguage:     "english", TargetLanguage: "cebuano",
	},
	{
		SourceText:         "The bus leaves in ten minutes.",
		MachineTranslation: "Mobiya ang bus sulod sa napulo ka minuto.",
		SourceLanguage:     "english", TargetLanguage: "cebuano",
	},
	{
		SourceText:         "Thank you for your help.",
		MachineTranslation: "Salamat sa imong tabang.",
		SourceLanguage:     "english", TargetLanguage: "cebuano",
	},
}

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.MigrationsDir); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	ctx := context.Background()
	userRepo := repository.NewPgUserRepository(db)
	sentenceRepo := repository.NewPgSentenceRepository(db)

	for _, su := range seedUsers {
		if _, err := userRepo.FindByEmail(ctx, su.email); err == nil {
			logger.Info("user exists, skipping", zap.String("email", su.email))
			continue
		} else if !errors.Is(err, common.ErrNotFound) {
			logger.Fatal("looking up user", zap.Error(err))
		}

		hashed, err := security.HashPassword(su.password)
		if err != nil {
			logger.Fatal("hashing password", zap.Error(err))
		}
		user := &model.User{
			ID:                uuid.NewString(),
			Email:             su.email,
			Username:          su.username,
			FirstName:         su.firstName,
			LastName:          su.lastName,
			HashedPassword:    hashed,
			PreferredLanguage: su.languages[0],
			IsActive:          true,
			IsAdmin:           su.isAdmin,
			IsEvaluator:       su.isEvaluator,
			GuidelinesSeen:    true,
			Languages:         su.languages,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			logger.Fatal("creating user", zap.String("email", su.email), zap.Error(err))
		}
		logger.Info("created user", zap.String("email", su.email))
	}

	count, err := sentenceRepo.CountSentences(ctx)
	if err != nil {
		logger.Fatal("counting sentences", zap.Error(err))
	}
	if count > 0 {
		logger.Info("sentences exist, skipping", zap.Int("count", count))
		return
	}

	sentences := make([]*model.Sentence, 0, len(seedSentences))
	for i := range seedSentences {
		s := seedSentences[i]
		s.ID = uuid.NewString()
		s.IsActive = true
		sentences = append(sentences, &s)
	}
	if err := sentenceRepo.CreateSentences(ctx, sentences); err != nil {
		logger.Fatal("creating sentences", zap.Error(err))
	}
	logger.Info("created sentences", zap.Int("count", len(sentences)))
}
