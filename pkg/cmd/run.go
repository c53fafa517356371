package cmd

import (
	"context"
	"fmt"

	"github.com/evgsokolov/surveyflow/pkg/bot"
	"github.com/evgsokolov/surveyflow/pkg/core"
	"github.com/evgsokolov/surveyflow/pkg/definition"
	"github.com/evgsokolov/surveyflow/pkg/prov"
	"github.com/evgsokolov/surveyflow/pkg/repo"
)

func runBot(ctx context.Context, arg *args) error {
	if err := initLogger(arg); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}

	cfg, err := loadConfig(arg)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	survey, err := definition.Load(cfg.Survey.Definition)
	if err != nil {
		return fmt.Errorf("failed to load survey definition: %w", err)
	}

	sessions := repo.New(&cfg.Repo)
	defer sessions.Close()

	results := prov.New(cfg.Results)

	svc := core.New(survey.Title, survey.Sections, sessions, results)
	defer svc.Close()

	b, err := bot.New(&cfg.Bot, svc)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	return b.Run(ctx)
}
