package git

import "context"

// Compile-time check that MockRepository implements Repository.
var _ Repository = (*MockRepository)(nil)

// MockRepository is a configurable mock implementation of Repository for testing.
// Each method is backed by a function field. If the function field is nil,
// the method returns sensible zero values.
type MockRepository struct {
	WorkingDirectoryFunc   func() string
	UncommittedChangesFunc func() ([]string, error)
	CurrentBranchFunc      func() (Branch, error)
	TagExistsFunc          func(string) (bool, error)
	IsTrackedFunc          func(string) (bool, error)
	AddFunc                func(...string) error
	CommitFunc             func(string) (string, error)
	CreateTagFunc          func(string, string) error
	RemoteURLFunc          func(string) (string, error)
	PushBranchFunc         func(context.Context, string, Branch) error
	PushTagsFunc           func(context.Context, string) error
}

func (m *MockRepository) WorkingDirectory() string {
	if m.WorkingDirectoryFunc != nil {
		return m.WorkingDirectoryFunc()
	}
	return ""
}

func (m *MockRepository) UncommittedChanges() ([]string, error) {
	if m.UncommittedChangesFunc != nil {
		return m.UncommittedChangesFunc()
	}
	return nil, nil
}

func (m *MockRepository) CurrentBranch() (Branch, error) {
	if m.CurrentBranchFunc != nil {
		return m.CurrentBranchFunc()
	}
	return Branch{}, nil
}

func (m *MockRepository) TagExists(name string) (bool, error) {
	if m.TagExistsFunc != nil {
		return m.TagExistsFunc(name)
	}
	return false, nil
}

func (m *MockRepository) IsTracked(path string) (bool, error) {
	if m.IsTrackedFunc != nil {
		return m.IsTrackedFunc(path)
	}
	return false, nil
}

func (m *MockRepository) Add(paths ...string) error {
	if m.AddFunc != nil {
		return m.AddFunc(paths...)
	}
	return nil
}

func (m *MockRepository) Commit(message string) (string, error) {
	if m.CommitFunc != nil {
		return m.CommitFunc(message)
	}
	return "", nil
}

func (m *MockRepository) CreateTag(name, message string) error {
	if m.CreateTagFunc != nil {
		return m.CreateTagFunc(name, message)
	}
	return nil
}

func (m *MockRepository) RemoteURL(name string) (string, error) {
	if m.RemoteURLFunc != nil {
		return m.RemoteURLFunc(name)
	}
	return "", nil
}

func (m *MockRepository) PushBranch(ctx context.Context, remote string, branch Branch) error {
	if m.PushBranchFunc != nil {
		return m.PushBranchFunc(ctx, remote, branch)
	}
	return nil
}

func (m *MockRepository) PushTags(ctx context.Context, remote string) error {
	if m.PushTagsFunc != nil {
		return m.PushTagsFunc(ctx, remote)
	}
	return nil
}
