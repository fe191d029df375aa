package plugins

import (
	"context"
	"fmt"
	"slices"

	"github.com/binford2k/denmark/pkg/module"
	"github.com/binford2k/denmark/pkg/repository"
	"github.com/binford2k/denmark/pkg/smell"
)

// Timeline infers trends from the order of tags, commits and issues.
type Timeline struct {
	smell.Base
}

func (*Timeline) Name() string { return "timeline" }

func (*Timeline) Description() string {
	return "This smell test infers trends a module base on its timeline of issues and commits and whatnot."
}

func (p *Timeline) Run(ctx context.Context, _ *module.Module, repo repository.Provider) ([]smell.Alert, error) {
	sinceCommits, err := repo.CommitsSinceTag(ctx, nil)
	if err != nil {
		return nil, err
	}
	sinceIssues, err := repo.IssuesSinceTag(ctx, nil)
	if err != nil {
		return nil, err
	}
	tags, err := repo.Tags(ctx)
	if err != nil {
		return nil, err
	}
	commits, err := repo.Commits(ctx)
	if err != nil {
		return nil, err
	}

	taggers, err := repo.Committers(ctx, repository.AsSignables(tags))
	if err != nil {
		return nil, err
	}
	commitsVerified, err := verifyAll(ctx, repo, repository.AsSignables(commits))
	if err != nil {
		return nil, err
	}
	tagsVerified, err := verifyAll(ctx, repo, repository.AsSignables(tags))
	if err != nil {
		return nil, err
	}

	unsigned := func(v bool) bool { return !v }
	unsignedCommits := smell.PercentOf(commitsVerified, unsigned)
	unsignedTags := smell.PercentOf(tagsVerified, unsigned)
	latestVerified := len(tagsVerified) > 0 && tagsVerified[0]

	var alerts []smell.Alert

	if len(taggers) > 0 {
		lastTagger, others := taggers[0], taggers[1:]
		if !slices.Contains(others, lastTagger) {
			alerts = append(alerts, smell.Alert{
				Severity:    smell.Yellow,
				Message:     fmt.Sprintf("The last tag was pushed by %s, who has not tagged any other release.", lastTagger),
				Explanation: "This often indicates that a project has recently changed owners. Check to ensure you still know who's maintaining the project.",
			})
		}
	}

	if len(tags) > 0 && !latestVerified {
		alerts = append(alerts, smell.Alert{
			Severity:    smell.Yellow,
			Message:     "The last tag was not verified.",
			Explanation: "Many authors don't bother to sign their tags. This means you have no way to ensure who creates them.",
		})
	}

	// TODO: weight recent commits and tags more heavily in the two ratios below.
	if unsignedCommits >= 25 && unsignedCommits <= 75 {
		alerts = append(alerts, smell.Alert{
			Severity:    smell.Green,
			Message:     fmt.Sprintf("%d%% of the commits in this repo are not signed.", unsignedCommits),
			Explanation: "The repository is using signed commits, but some of the contributions are unverified.",
		})
	}
	if unsignedTags >= 15 && unsignedTags <= 85 {
		alerts = append(alerts, smell.Alert{
			Severity:    smell.Green,
			Message:     fmt.Sprintf("%d%% of the tags in this repo are not signed.", unsignedTags),
			Explanation: "The repository is using signed tags, but a significant number are unverified.",
		})
	}

	if unsignedTags > 85 && len(tags) > 0 && !latestVerified {
		alerts = append(alerts, smell.Alert{
			Severity:    smell.Red,
			Message:     "Most tags in this repo are signed, but not the latest one.",
			Explanation: "At best, this means a sloppy release. But it could also mean a compromised release.",
		})
	}

	if n := len(sinceCommits); n > 10 {
		alerts = append(alerts, smell.Alert{
			Severity:    smell.Yellow,
			Message:     fmt.Sprintf("There are %d commits since the last release.", n),
			Explanation: "Sometimes maintainers forget to make a release. Maybe you should remind them?",
		})
	}
	if n := len(sinceIssues); n > 5 {
		alerts = append(alerts, smell.Alert{
			Severity:    smell.Yellow,
			Message:     fmt.Sprintf("There have been %d issues since the last tagged release.", n),
			Explanation: "Many issues on a release might indicate that there's a problem with it.",
		})
	}

	return alerts, nil
}

// verifyAll reports the verification state of every item, in order.
func verifyAll(ctx context.Context, repo repository.Provider, items []repository.Signable) ([]bool, error) {
	out := make([]bool, len(items))
	for i, item := range items {
		ok, err := repo.Verified(ctx, item)
		if err != nil {
			return nil, err
		}
		out[i] = ok
	}
	return out, nil
}
