package plugins

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/binford2k/denmark/pkg/module"
	"github.com/binford2k/denmark/pkg/repository"
	"github.com/binford2k/denmark/pkg/smell"
)

// Metadata compares the latest registry release with the repository's
// metadata.json, changelog and latest tag.
type Metadata struct {
	smell.Base
	clock
}

func (*Metadata) Name() string { return "metadata" }

func (*Metadata) Description() string {
	return `This smell test inspects the module's metadata for signs of something fishy. It will also compare
that metadata to what exists in the module's git repository.`
}

const sloppyRelease = "This sometimes just indicates sloppy release practices, but could indicate a compromised %s release."

func (p *Metadata) Run(ctx context.Context, mod *module.Module, repo repository.Provider) ([]smell.Alert, error) {
	release, ok := mod.Latest()
	if !ok {
		return nil, nil
	}
	registry := registryName(mod.Ecosystem)
	releaseDate := date(release.UpdatedAt)

	repoVersion, err := metadataVersion(ctx, repo)
	if err != nil {
		return nil, err
	}
	repoChangelog, err := changelog(ctx, repo)
	if err != nil {
		return nil, err
	}
	tags, err := repo.Tags(ctx)
	if err != nil {
		return nil, err
	}

	var latestTag *repository.Tag
	tagMatches := false
	if len(tags) > 0 {
		latestTag = &tags[0]
		tagMatches = latestTag.Name == release.Version || latestTag.Name == "v"+release.Version
	}

	var alerts []smell.Alert

	age := daysBetween(p.today(), releaseDate)
	if age > 365 {
		alerts = append(alerts, smell.Alert{
			Severity:    smell.Green,
			Message:     "The most current module release is more than a year old.",
			Explanation: "Sometimes when issues are not responded to, it means that the project is no longer being maintained. You might consider contacting the maintainer to determine the status of the project.",
		})
	}
	if age < 15 {
		alerts = append(alerts, smell.Alert{
			Severity:    smell.Green,
			Message:     "The most current module release is less than 15 days old.",
			Explanation: "Fresh releases have had little time for anyone to notice problems with them. You might wait a few days before upgrading.",
		})
	}

	if !tagMatches && newerThan(release.Version, repoVersion) {
		alerts = append(alerts, smell.Alert{
			Severity:    smell.Red,
			Message:     fmt.Sprintf("The version released on the %s is greater than the version in the repository.", registry),
			Explanation: fmt.Sprintf("Validate that the %s release is not compromised and is the latest released version.", registry),
		})
	}

	if release.Changelog != nil || mod.Ecosystem == module.Puppet {
		var published string
		if release.Changelog != nil {
			published = *release.Changelog
		}
		if strings.TrimSpace(published) != strings.TrimSpace(repoChangelog) {
			alerts = append(alerts, smell.Alert{
				Severity:    smell.Green,
				Message:     fmt.Sprintf("The module changelog on the %s does not match what's in the repository.", registry),
				Explanation: "This is not necessarily a problem. Some developers choose to update the changelog iteratively as they merge pull requests instead of all at release time. Still, it's worth double checking.",
			})
		}
	}

	if latestTag != nil {
		if !tagMatches {
			alerts = append(alerts, smell.Alert{
				Severity:    smell.Yellow,
				Message:     fmt.Sprintf("The version released on the %s does not match the latest tag in the repo.", registry),
				Explanation: fmt.Sprintf(sloppyRelease, registry),
			})
		}

		tagged, err := tagDate(ctx, repo, latestTag)
		if err != nil {
			return nil, err
		}
		if !releaseDate.Equal(tagged) {
			alerts = append(alerts, smell.Alert{
				Severity:    smell.Yellow,
				Message:     fmt.Sprintf("The module was not published to the %s on the same day that the latest release was tagged.", registry),
				Explanation: fmt.Sprintf(sloppyRelease, registry),
			})
		}
	}

	if prev, ok := mod.Previous(); ok && daysBetween(releaseDate, prev.UpdatedAt) > 365 {
		alerts = append(alerts, smell.Alert{
			Severity:    smell.Green,
			Message:     "There was a gap of at least a year between the last two releases.",
			Explanation: "A large gap between releases often shows sporadic maintenance. This is not always bad.",
		})
	}

	return alerts, nil
}

// metadataVersion reads the version from the repository's metadata.json.
// A missing or unreadable file yields "".
func metadataVersion(ctx context.Context, repo repository.Provider) (string, error) {
	body, ok, err := repo.FileContent(ctx, "metadata.json")
	if err != nil || !ok {
		return "", err
	}
	var meta struct {
		Version string `json:"version"`
	}
	if json.Unmarshal([]byte(body), &meta) != nil {
		return "", nil
	}
	return strings.TrimSpace(meta.Version), nil
}

// changelog returns CHANGELOG.md, else CHANGELOG, else "".
func changelog(ctx context.Context, repo repository.Provider) (string, error) {
	for _, path := range []string{"CHANGELOG.md", "CHANGELOG"} {
		body, ok, err := repo.FileContent(ctx, path)
		if err != nil {
			return "", err
		}
		if ok {
			return body, nil
		}
	}
	return "", nil
}

// tagDate is the calendar day of the tag's commit.
func tagDate(ctx context.Context, repo repository.Provider, tag *repository.Tag) (time.Time, error) {
	if !tag.CreatedAt.IsZero() {
		return date(tag.CreatedAt), nil
	}
	d, err := repo.CommitDate(ctx, tag.SHA)
	if err != nil {
		return time.Time{}, err
	}
	return date(d), nil
}

// newerThan reports whether version is a greater semantic version than
// other. Versions that don't parse never compare as newer.
func newerThan(version, other string) bool {
	if other == "" {
		return false
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	o, err := semver.NewVersion(other)
	if err != nil {
		return false
	}
	return v.GreaterThan(o)
}
