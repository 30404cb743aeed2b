package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"skillmatch/internal/config"
	"skillmatch/internal/database"
	"skillmatch/internal/database/migration"
	dbpostgres "skillmatch/internal/database/postgres"
	"skillmatch/internal/delivery/http/middleware"
	"skillmatch/internal/delivery/http/routes"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type semanticResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type authData struct {
	User struct {
		ID       uuid.UUID `json:"id"`
		Username string    `json:"username"`
	} `json:"user"`
	AccessToken string `json:"access_token"`
}

type skillData struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type findMatchesData struct {
	Matches []struct {
		UserID       uuid.UUID `json:"user_id"`
		Username     string    `json:"username"`
		CommonSkills []string  `json:"common_skills"`
	} `json:"matches"`
}

type isMatchedData struct {
	Matched bool `json:"matched"`
}

// Exercises the full flow against a real database: register users, build skill
// profiles, rank candidates, unlock the pair, and verify the unlock is visible
// from both sides.
func TestIntegration_FindMatches_SaveMatch_Unlock(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db := connectTestDB(t, ctx)
	defer func() { _ = db.Close() }()

	runMigrations(t, ctx, db)

	app := newTestFiberApp(t, testConfig(), db)

	// unique suffix keeps reruns from tripping the uniqueness constraints
	suffix := uuid.New().String()[:8]

	seeker := registerUser(t, app, "seeker_"+suffix)
	builder := registerUser(t, app, "builder_"+suffix)
	bystander := registerUser(t, app, "bystander_"+suffix)
	defer cleanupUsers(t, ctx, db, seeker.User.ID, builder.User.ID, bystander.User.ID)

	pythonName := "python-" + suffix
	sqlName := "sql-" + suffix
	dockerName := "docker-" + suffix
	javaName := "java-" + suffix

	python := createSkill(t, app, seeker.AccessToken, pythonName)
	sqlSkill := createSkill(t, app, seeker.AccessToken, sqlName)
	docker := createSkill(t, app, seeker.AccessToken, dockerName)
	java := createSkill(t, app, seeker.AccessToken, javaName)
	defer cleanupSkills(t, ctx, db, python.ID, sqlSkill.ID, docker.ID, java.ID)

	// duplicate submission in different case resolves to the same skill
	again := createSkill(t, app, seeker.AccessToken, "PYTHON-"+suffix)
	if again.ID != python.ID {
		t.Fatalf("expected case-insensitive skill dedupe, got %s vs %s", again.ID, python.ID)
	}

	assignSkill(t, app, builder.AccessToken, python.ID)
	assignSkill(t, app, builder.AccessToken, sqlSkill.ID)
	assignSkill(t, app, bystander.AccessToken, java.ID)

	found := findMatches(t, app, seeker.AccessToken, []string{pythonName, sqlName, dockerName})
	if len(found.Matches) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(found.Matches))
	}
	if found.Matches[0].UserID != builder.User.ID {
		t.Fatalf("expected candidate %s, got %s", builder.User.ID, found.Matches[0].UserID)
	}
	if len(found.Matches[0].CommonSkills) != 2 {
		t.Fatalf("expected 2 common skills, got %v", found.Matches[0].CommonSkills)
	}

	if isMatched(t, app, seeker.AccessToken, builder.User.ID) {
		t.Fatalf("pair unexpectedly matched before save")
	}

	saveMatch(t, app, seeker.AccessToken, builder.User.ID)
	defer cleanupMatches(t, ctx, db, seeker.User.ID)

	// the same save from the other side must not error
	saveMatch(t, app, builder.AccessToken, seeker.User.ID)

	if !isMatched(t, app, seeker.AccessToken, builder.User.ID) {
		t.Fatalf("expected matched=true from initiator side")
	}
	if !isMatched(t, app, builder.AccessToken, seeker.User.ID) {
		t.Fatalf("expected matched=true from target side")
	}
	if isMatched(t, app, seeker.AccessToken, bystander.User.ID) {
		t.Fatalf("expected matched=false for unrelated pair")
	}
}

func connectTestDB(t *testing.T, ctx context.Context) database.DB {
	t.Helper()

	host := firstNonEmpty(os.Getenv("SKILLMATCH_TEST_DB_HOST"), os.Getenv("DB_HOST"))
	port := firstNonEmpty(os.Getenv("SKILLMATCH_TEST_DB_PORT"), os.Getenv("DB_PORT"))
	name := firstNonEmpty(os.Getenv("SKILLMATCH_TEST_DB_NAME"), os.Getenv("DB_NAME"))
	user := firstNonEmpty(os.Getenv("SKILLMATCH_TEST_DB_USER"), os.Getenv("DB_USER"))
	pass := firstNonEmpty(os.Getenv("SKILLMATCH_TEST_DB_PASSWORD"), os.Getenv("DB_PASSWORD"))
	ssl := firstNonEmpty(os.Getenv("SKILLMATCH_TEST_DB_SSL_MODE"), os.Getenv("DB_SSL_MODE"))

	if host == "" || port == "" || name == "" || user == "" {
		t.Skip("missing test DB env vars: set SKILLMATCH_TEST_DB_HOST/PORT/NAME/USER/PASSWORD (or DB_HOST/DB_PORT/DB_NAME/DB_USER/DB_PASSWORD)")
	}
	if ssl == "" {
		ssl = "disable"
	}

	db, err := dbpostgres.Connect(ctx, config.DatabaseConfig{
		DBHost:     host,
		DBPort:     port,
		DBName:     name,
		DBUser:     user,
		DBPassword: pass,
		DBSSLMode:  ssl,
	})
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return db
}

func runMigrations(t *testing.T, ctx context.Context, db database.DB) {
	t.Helper()

	r := migration.Runner{Dir: resolveMigrationsDir(t)}
	if err := r.Run(ctx, db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
}

func resolveMigrationsDir(t *testing.T) string {
	t.Helper()

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("resolve migrations dir: runtime.Caller failed")
	}

	root := filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
	dir := filepath.Join(root, "migrations")

	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		t.Fatalf("resolve migrations dir: not found or not a dir: %s", dir)
	}
	return dir
}

func testConfig() config.Config {
	return config.Config{
		App: config.AppConfig{AppName: "SkillMatch", Environment: "test", HTTPPort: "0"},
		JWT: config.JWTConfig{
			AccessSecret:     firstNonEmpty(os.Getenv("SKILLMATCH_TEST_JWT_ACCESS_SECRET"), "test-access-secret"),
			RefreshSecret:    firstNonEmpty(os.Getenv("SKILLMATCH_TEST_JWT_REFRESH_SECRET"), "test-refresh-secret"),
			AccessExpiresIn:  15 * time.Minute,
			RefreshExpiresIn: 24 * time.Hour,
		},
	}
}

func newTestFiberApp(t *testing.T, cfg config.Config, db database.DB) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{})
	app.Use(middleware.NewErrorMiddleware().Middleware())

	routes.NewRegistry(cfg, db, nil, nil, nil).Register(app)
	return app
}

func registerUser(t *testing.T, app *fiber.App, username string) authData {
	t.Helper()

	sr := postJSON(t, app, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "longenough",
	})
	if sr.Status != 200 {
		t.Fatalf("register %s: expected status=200, got %d (message=%s)", username, sr.Status, sr.Message)
	}

	var out authData
	if err := json.Unmarshal(sr.Data, &out); err != nil {
		t.Fatalf("register %s: data unmarshal error: %v", username, err)
	}
	if out.AccessToken == "" || out.User.ID == uuid.Nil {
		t.Fatalf("register %s: incomplete auth payload", username)
	}
	return out
}

func createSkill(t *testing.T, app *fiber.App, token, name string) skillData {
	t.Helper()

	sr := postJSON(t, app, "/api/v1/skills/", token, map[string]string{"name": name})
	if sr.Status != 200 {
		t.Fatalf("create skill %s: expected status=200, got %d (message=%s)", name, sr.Status, sr.Message)
	}

	var out skillData
	if err := json.Unmarshal(sr.Data, &out); err != nil {
		t.Fatalf("create skill %s: data unmarshal error: %v", name, err)
	}
	if out.ID == uuid.Nil {
		t.Fatalf("create skill %s: missing id", name)
	}
	return out
}

func assignSkill(t *testing.T, app *fiber.App, token string, skillID uuid.UUID) {
	t.Helper()

	sr := postJSON(t, app, "/api/v1/me/skills/", token, map[string]string{"skill_id": skillID.String()})
	if sr.Status != 200 {
		t.Fatalf("assign skill %s: expected status=200, got %d (message=%s)", skillID, sr.Status, sr.Message)
	}
}

func findMatches(t *testing.T, app *fiber.App, token string, skills []string) findMatchesData {
	t.Helper()

	sr := postJSON(t, app, "/api/v1/matches/find", token, map[string]any{"skills": skills})
	if sr.Status != 200 {
		t.Fatalf("find matches: expected status=200, got %d (message=%s)", sr.Status, sr.Message)
	}

	var out findMatchesData
	if err := json.Unmarshal(sr.Data, &out); err != nil {
		t.Fatalf("find matches: data unmarshal error: %v", err)
	}
	return out
}

func saveMatch(t *testing.T, app *fiber.App, token string, targetID uuid.UUID) {
	t.Helper()

	sr := postJSON(t, app, "/api/v1/matches/", token, map[string]string{"target_id": targetID.String()})
	if sr.Status != 200 {
		t.Fatalf("save match %s: expected status=200, got %d (message=%s)", targetID, sr.Status, sr.Message)
	}
}

func isMatched(t *testing.T, app *fiber.App, token string, otherID uuid.UUID) bool {
	t.Helper()

	req := httptest.NewRequest("GET", fmt.Sprintf("/api/v1/matches/with/%s", otherID), nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("is-matched request error: %v", err)
	}
	defer resp.Body.Close()

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		t.Fatalf("is-matched decode error: %v", err)
	}
	if sr.Status != 200 {
		t.Fatalf("is-matched: expected status=200, got %d (message=%s)", sr.Status, sr.Message)
	}

	var out isMatchedData
	if err := json.Unmarshal(sr.Data, &out); err != nil {
		t.Fatalf("is-matched: data unmarshal error: %v", err)
	}
	return out.Matched
}

func postJSON(t *testing.T, app *fiber.App, path, token string, body any) semanticResponse {
	t.Helper()

	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	req := httptest.NewRequest("POST", path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s request error: %v", path, err)
	}
	defer resp.Body.Close()

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		t.Fatalf("%s decode error: %v", path, err)
	}
	return sr
}

func cleanupUsers(t *testing.T, ctx context.Context, db database.DB, ids ...uuid.UUID) {
	t.Helper()
	for _, id := range ids {
		_, _ = db.Exec(ctx, `DELETE FROM user_skills WHERE user_id = $1`, id)
		_, _ = db.Exec(ctx, `DELETE FROM matches WHERE user_a_id = $1 OR user_b_id = $1`, id)
		_, _ = db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	}
}

func cleanupSkills(t *testing.T, ctx context.Context, db database.DB, ids ...uuid.UUID) {
	t.Helper()
	for _, id := range ids {
		_, _ = db.Exec(ctx, `DELETE FROM user_skills WHERE skill_id = $1`, id)
		_, _ = db.Exec(ctx, `DELETE FROM skills WHERE id = $1`, id)
	}
}

func cleanupMatches(t *testing.T, ctx context.Context, db database.DB, userID uuid.UUID) {
	t.Helper()
	_, _ = db.Exec(ctx, `DELETE FROM matches WHERE user_a_id = $1 OR user_b_id = $1`, userID)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
