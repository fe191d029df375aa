package plugins

import (
	"context"
	"fmt"

	"github.com/binford2k/denmark/pkg/module"
	"github.com/binford2k/denmark/pkg/repository"
	"github.com/binford2k/denmark/pkg/smell"
)

// Issues infers maintainer responsiveness from open issues.
type Issues struct {
	smell.Base
	clock
}

func (*Issues) Name() string { return "issues" }

func (*Issues) Description() string {
	return `This smell test infers trends about the responsiveness of a module's maintainer(s)
based on patterns in its repository issues.`
}

func (p *Issues) Run(ctx context.Context, _ *module.Module, repo repository.Provider) ([]smell.Alert, error) {
	issues, err := repo.Issues(ctx)
	if err != nil {
		return nil, err
	}

	today := p.today()
	unanswered := smell.PercentOf(issues, func(i repository.Issue) bool { return i.Comments == 0 })
	ancient := smell.PercentOf(issues, func(i repository.Issue) bool {
		return daysBetween(today, i.CreatedAt) > ancientDays
	})

	var alerts []smell.Alert
	if unanswered > 25 {
		alerts = append(alerts, smell.Alert{
			Severity:    smell.Orange,
			Message:     fmt.Sprintf("%d%% of the issues in this module's repository have no responses.", unanswered),
			Explanation: "Sometimes when issues are not responded to, it means that the project is no longer being maintained. You might consider contacting the maintainer to determine the status of the project.",
		})
	}
	if ancient > 50 {
		alerts = append(alerts, smell.Alert{
			Severity:    smell.Yellow,
			Message:     fmt.Sprintf("%d%% of the issues in this module's repository are more than 3 years old.", ancient),
			Explanation: "Many very old issues may indicate that the maintainer is not responding to community feedback.",
		})
	}
	return alerts, nil
}
