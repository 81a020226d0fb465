package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v68/github"
)

// Repo identifies a GitHub repository.
type Repo struct {
	Owner string
	Name  string
}

func (r Repo) String() string {
	return r.Owner + "/" + r.Name
}

// ParseRemoteURL extracts owner and repository from a git remote URL in
// HTTPS, ssh:// or scp-like (git@host:owner/repo.git) form.
func ParseRemoteURL(remote string) (Repo, error) {
	path := ""
	switch {
	case strings.Contains(remote, "://"):
		u, err := url.Parse(remote)
		if err != nil {
			return Repo{}, fmt.Errorf("parsing remote URL: %w", err)
		}
		path = u.Path
	case strings.Contains(remote, ":"):
		path = remote[strings.Index(remote, ":")+1:]
	default:
		return Repo{}, fmt.Errorf("remote %q is not a GitHub URL", remote)
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Repo{}, fmt.Errorf("remote %q does not name an owner/repository", remote)
	}

	return Repo{Owner: parts[0], Name: parts[1]}, nil
}

// Release describes a published GitHub release.
type Release struct {
	ID      int64
	TagName string
	URL     string
	// Existed is true when a release for the tag was already present.
	Existed bool
}

// Publisher creates GitHub releases.
type Publisher struct {
	client *gh.Client
}

// NewPublisher creates a Publisher using an authenticated client.
func NewPublisher(client *gh.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish creates a release for an already pushed tag, with notes generated
// by GitHub. If a release for the tag exists it is returned unchanged.
// Releases are never marked as pre-releases.
func (p *Publisher) Publish(ctx context.Context, repo Repo, tagName string) (Release, error) {
	existing, _, err := p.client.Repositories.GetReleaseByTag(ctx, repo.Owner, repo.Name, tagName)
	switch {
	case err == nil:
		return Release{
			ID:      existing.GetID(),
			TagName: existing.GetTagName(),
			URL:     existing.GetHTMLURL(),
			Existed: true,
		}, nil
	case !IsNotFoundError(err):
		return Release{}, fmt.Errorf("looking up release %s in %s: %w", tagName, repo, err)
	}

	created, _, err := p.client.Repositories.CreateRelease(ctx, repo.Owner, repo.Name, &gh.RepositoryRelease{
		TagName:              gh.Ptr(tagName),
		Name:                 gh.Ptr(tagName),
		Prerelease:           gh.Ptr(false),
		GenerateReleaseNotes: gh.Ptr(true),
	})
	if err != nil {
		return Release{}, fmt.Errorf("creating release %s in %s: %w", tagName, repo, err)
	}

	return Release{
		ID:      created.GetID(),
		TagName: created.GetTagName(),
		URL:     created.GetHTMLURL(),
	}, nil
}
