package api

import (
	"context"
	"html/template"
	"sync"
	"time"

	"github.com/casebridge/casebridge/internal/db"
	"github.com/casebridge/casebridge/internal/models"
	"github.com/gin-gonic/gin"
)

// fakeStore is an in-memory implementation of every store interface,
// mirroring the semantics of the pgx-backed repositories.
type fakeStore struct {
	mu sync.Mutex

	users    map[int64]models.User
	orgs     map[int64]models.Organization
	cases    map[int64]models.Case
	logs     []models.Log
	sessions map[string]models.Session

	nextUserID    int64
	nextOrgID     int64
	nextCaseID    int64
	nextLogID     int64
	nextSessionID int64

	// When set, the matching operations fail with this error
	caseErr error
	logErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[int64]models.User),
		orgs:     make(map[int64]models.Organization),
		cases:    make(map[int64]models.Case),
		sessions: make(map[string]models.Session),
	}
}

func (f *fakeStore) CreateUser(_ context.Context, req models.UserCreateRequest, passwordHash string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == req.Email {
			return nil, db.ErrDuplicateEmail
		}
	}
	f.nextUserID++
	number := 0
	if req.Number != nil {
		number = *req.Number
	}
	u := models.User{
		ID: f.nextUserID, Name: req.Name, Email: req.Email,
		PasswordHash: passwordHash, Phone: req.Phone, Address: req.Address,
		Number: number, Complement: req.Complement, City: req.City,
		UF: req.UF, CreatedAt: time.Now(),
	}
	f.users[u.ID] = u
	out := u
	out.PasswordHash = ""
	return &out, nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	out := u
	out.PasswordHash = ""
	return &out, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) GetUsers(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		u.PasswordHash = ""
		users = append(users, u)
	}
	return users, nil
}

func (f *fakeStore) UpdateUser(_ context.Context, id int64, updates models.UserUpdateRequest, passwordHash *string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	if updates.Email != nil {
		for oid, other := range f.users {
			if oid != id && other.Email == *updates.Email {
				return nil, db.ErrDuplicateEmail
			}
		}
		u.Email = *updates.Email
	}
	if updates.Name != nil {
		u.Name = *updates.Name
	}
	if passwordHash != nil {
		u.PasswordHash = *passwordHash
	}
	if updates.Phone != nil {
		u.Phone = *updates.Phone
	}
	if updates.Address != nil {
		u.Address = *updates.Address
	}
	if updates.Number != nil {
		u.Number = *updates.Number
	}
	if updates.Complement != nil {
		u.Complement = updates.Complement
	}
	if updates.City != nil {
		u.City = *updates.City
	}
	if updates.UF != nil {
		u.UF = *updates.UF
	}
	f.users[id] = u
	out := u
	out.PasswordHash = ""
	return &out, nil
}

func (f *fakeStore) DeleteUser(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return db.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeStore) CreateOrg(_ context.Context, req models.OrgCreateRequest, passwordHash string) (*models.Organization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orgs {
		if o.Email == req.Email {
			return nil, db.ErrDuplicateEmail
		}
	}
	f.nextOrgID++
	number := 0
	if req.Number != nil {
		number = *req.Number
	}
	o := models.Organization{
		ID: f.nextOrgID, Name: req.Name, Email: req.Email,
		PasswordHash: passwordHash, Phone: req.Phone, Address: req.Address,
		Number: number, Complement: req.Complement, City: req.City,
		UF: req.UF, CreatedAt: time.Now(),
	}
	f.orgs[o.ID] = o
	out := o
	out.PasswordHash = ""
	return &out, nil
}

func (f *fakeStore) GetOrgByID(_ context.Context, id int64) (*models.Organization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orgs[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	out := o
	out.PasswordHash = ""
	return &out, nil
}

func (f *fakeStore) GetOrgByEmail(_ context.Context, email string) (*models.Organization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orgs {
		if o.Email == email {
			out := o
			return &out, nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) GetOrgs(_ context.Context) ([]models.Organization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	orgs := make([]models.Organization, 0, len(f.orgs))
	for _, o := range f.orgs {
		o.PasswordHash = ""
		orgs = append(orgs, o)
	}
	return orgs, nil
}

func (f *fakeStore) UpdateOrg(_ context.Context, id int64, updates models.OrgUpdateRequest, passwordHash *string) (*models.Organization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orgs[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	if updates.Email != nil {
		for oid, other := range f.orgs {
			if oid != id && other.Email == *updates.Email {
				return nil, db.ErrDuplicateEmail
			}
		}
		o.Email = *updates.Email
	}
	if updates.Name != nil {
		o.Name = *updates.Name
	}
	if passwordHash != nil {
		o.PasswordHash = *passwordHash
	}
	if updates.Phone != nil {
		o.Phone = *updates.Phone
	}
	if updates.Address != nil {
		o.Address = *updates.Address
	}
	if updates.Number != nil {
		o.Number = *updates.Number
	}
	if updates.Complement != nil {
		o.Complement = updates.Complement
	}
	if updates.City != nil {
		o.City = *updates.City
	}
	if updates.UF != nil {
		o.UF = *updates.UF
	}
	f.orgs[id] = o
	out := o
	out.PasswordHash = ""
	return &out, nil
}

func (f *fakeStore) DeleteOrg(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.orgs[id]; !ok {
		return db.ErrNotFound
	}
	delete(f.orgs, id)
	return nil
}

func (f *fakeStore) CreateCase(_ context.Context, req models.CaseCreateRequest, principal models.Principal) (*models.Case, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.caseErr != nil {
		return nil, f.caseErr
	}
	f.nextCaseID++
	cs := models.Case{
		ID: f.nextCaseID, Title: req.Title, Description: req.Description,
		Status: models.CaseOpen, CreatedAt: time.Now(),
	}
	id := principal.ID
	switch principal.Type {
	case models.PrincipalUser:
		cs.UserID = &id
	case models.PrincipalOrg:
		cs.OrgID = &id
	}
	f.cases[cs.ID] = cs
	out := cs
	return &out, nil
}

func (f *fakeStore) GetCases(_ context.Context) ([]models.Case, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.caseErr != nil {
		return nil, f.caseErr
	}
	cases := make([]models.Case, 0)
	for _, cs := range f.cases {
		if cs.Status != models.CaseDeleted {
			cases = append(cases, cs)
		}
	}
	return cases, nil
}

func (f *fakeStore) GetCasesByOrg(_ context.Context, orgID int64) ([]models.Case, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.caseErr != nil {
		return nil, f.caseErr
	}
	cases := make([]models.Case, 0)
	for _, cs := range f.cases {
		if cs.Status != models.CaseDeleted && cs.OrgID != nil && *cs.OrgID == orgID {
			cases = append(cases, cs)
		}
	}
	return cases, nil
}

func (f *fakeStore) GetCasesByUser(_ context.Context, userID int64) ([]models.Case, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.caseErr != nil {
		return nil, f.caseErr
	}
	cases := make([]models.Case, 0)
	for _, cs := range f.cases {
		if cs.Status != models.CaseDeleted && cs.UserID != nil && *cs.UserID == userID {
			cases = append(cases, cs)
		}
	}
	return cases, nil
}

func (f *fakeStore) GetCase(_ context.Context, id int64) (*models.Case, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cs, ok := f.cases[id]
	if !ok || cs.Status == models.CaseDeleted {
		return nil, db.ErrNotFound
	}
	out := cs
	return &out, nil
}

func (f *fakeStore) UpdateCase(_ context.Context, id int64, updates models.CaseUpdateRequest) (*models.Case, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cs, ok := f.cases[id]
	if !ok || cs.Status == models.CaseDeleted {
		return nil, db.ErrNotFound
	}
	if updates.Title != nil {
		cs.Title = *updates.Title
	}
	if updates.Description != nil {
		cs.Description = *updates.Description
	}
	f.cases[id] = cs
	out := cs
	return &out, nil
}

func (f *fakeStore) ClaimCase(_ context.Context, id, userID int64) (*models.Case, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cs, ok := f.cases[id]
	if !ok || cs.Status == models.CaseDeleted {
		return nil, db.ErrNotFound
	}
	if cs.UserID != nil {
		return nil, db.ErrAlreadyClaimed
	}
	cs.UserID = &userID
	f.cases[id] = cs
	out := cs
	return &out, nil
}

func (f *fakeStore) ResolveCase(_ context.Context, id int64) (*models.Case, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cs, ok := f.cases[id]
	if !ok || cs.Status == models.CaseDeleted {
		return nil, db.ErrNotFound
	}
	cs.Status = models.CaseResolved
	f.cases[id] = cs
	out := cs
	return &out, nil
}

func (f *fakeStore) DeleteCase(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cs, ok := f.cases[id]
	if !ok || cs.Status == models.CaseDeleted {
		return db.ErrNotFound
	}
	cs.Status = models.CaseDeleted
	f.cases[id] = cs
	return nil
}

func (f *fakeStore) AppendLog(_ context.Context, entry models.LogEntry) (*models.Log, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.logErr != nil {
		return nil, f.logErr
	}
	f.nextLogID++
	l := models.Log{
		ID: f.nextLogID, Title: entry.Title, Description: entry.Description,
		UserID: entry.UserID, OrgID: entry.OrgID, CreatedAt: time.Now(),
	}
	f.logs = append(f.logs, l)
	out := l
	return &out, nil
}

func (f *fakeStore) GetLogsForPrincipal(_ context.Context, principal models.Principal) ([]models.Log, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	logs := make([]models.Log, 0)
	for _, l := range f.logs {
		switch principal.Type {
		case models.PrincipalOrg:
			if l.OrgID != nil && *l.OrgID == principal.ID {
				logs = append(logs, l)
			}
		case models.PrincipalUser:
			if l.UserID != nil && *l.UserID == principal.ID {
				logs = append(logs, l)
			}
		}
	}
	return logs, nil
}

func (f *fakeStore) CreateSession(_ context.Context, tokenHash string, principal models.Principal, expiresAt time.Time, ip, userAgent string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextSessionID++
	s := models.Session{
		ID: f.nextSessionID, TokenHash: tokenHash,
		PrincipalType: principal.Type, PrincipalID: principal.ID,
		ExpiresAt: expiresAt, CreatedAt: time.Now(),
	}
	f.sessions[tokenHash] = s
	out := s
	return &out, nil
}

func (f *fakeStore) GetSession(_ context.Context, tokenHash string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[tokenHash]
	if !ok {
		return nil, db.ErrNotFound
	}
	out := s
	return &out, nil
}

func (f *fakeStore) RevokeSession(_ context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[tokenHash]; ok {
		s.Revoked = true
		f.sessions[tokenHash] = s
	}
	return nil
}

// pageTemplates builds minimal named templates for the view routes
func pageTemplates() *template.Template {
	tmpl := template.New("root")
	names := []string{
		"index.html", "login.html", "sign-up-user.html", "sign-up-org.html",
		"user-profile.html", "user-update.html", "user-dashboard.html",
		"org-profile.html", "org-update.html", "org-dashboard.html",
		"create-case.html", "logs.html",
	}
	for _, name := range names {
		template.Must(tmpl.New(name).Parse("<html>" + name + "</html>"))
	}
	template.Must(tmpl.New("error.html").Parse(`error:{{ .Status }}:{{ .Message }}`))
	return tmpl
}

// newTestServer wires a router over the fake store, Gin in test mode
func newTestServer(f *fakeStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handler{
		Users:    f,
		Orgs:     f,
		Cases:    f,
		Logs:     f,
		Sessions: f,
	}
	router := gin.New()
	router.SetHTMLTemplate(pageTemplates())
	RegisterRoutes(router, h)
	return router
}
