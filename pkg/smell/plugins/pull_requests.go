package plugins

import (
	"context"
	"fmt"

	"github.com/binford2k/denmark/pkg/module"
	"github.com/binford2k/denmark/pkg/repository"
	"github.com/binford2k/denmark/pkg/smell"
)

// PullRequests infers maintainer responsiveness from open pull requests.
type PullRequests struct {
	smell.Base
	clock
}

func (*PullRequests) Name() string { return "pull_requests" }

func (*PullRequests) Description() string {
	return `This smell test infers trends about the responsiveness of a module's maintainer(s)
based on patterns in its repository pull requests.`
}

func (p *PullRequests) Run(ctx context.Context, _ *module.Module, repo repository.Provider) ([]smell.Alert, error) {
	prs, err := repo.PullRequests(ctx)
	if err != nil {
		return nil, err
	}

	today := p.today()
	unanswered := smell.PercentOf(prs, func(pr repository.PullRequest) bool { return pr.Comments == 0 })
	ancient := smell.PercentOf(prs, func(pr repository.PullRequest) bool {
		return daysBetween(today, pr.CreatedAt) > ancientDays
	})

	var alerts []smell.Alert
	if unanswered > 10 {
		alerts = append(alerts, smell.Alert{
			Severity:    smell.Orange,
			Message:     fmt.Sprintf("%d%% of the pull requests in this module's repository have not been reviewed.", unanswered),
			Explanation: "Sometimes when pull requests are not reviewed, it means that the project is no longer being maintained. You might consider contacting the maintainer to determine the status of the project.",
		})
	}
	if ancient > 50 {
		alerts = append(alerts, smell.Alert{
			Severity:    smell.Yellow,
			Message:     fmt.Sprintf("%d%% of the pull requests in this module's repository are more than 3 years old.", ancient),
			Explanation: "Many very old pull requests may indicate that the maintainer is not merging community contributions.",
		})
	}
	return alerts, nil
}
