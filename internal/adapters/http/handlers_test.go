package http_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	handler "github.com/rienbien8/Bloomix-backend/internal/adapters/http"
	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
	"github.com/rienbien8/Bloomix-backend/internal/core/usecases"
)

// ---- Mock repositories ----

type mockUserRepo struct{ known map[int64]bool }

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if !m.known[id] {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return &domain.User{ID: id, Username: fmt.Sprintf("user%d", id)}, nil
}
func (m *mockUserRepo) UpsertBatch(ctx context.Context, users []domain.User) error { return nil }

type mockArtistRepo struct {
	listFn    func(ctx context.Context, f domain.ArtistFilter) ([]domain.Artist, int, error)
	getByIDFn func(ctx context.Context, id int64) (*domain.Artist, error)
}

func (m *mockArtistRepo) UpsertBatch(ctx context.Context, a []domain.Artist) error { return nil }
func (m *mockArtistRepo) GetByID(ctx context.Context, id int64) (*domain.Artist, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &domain.Artist{ID: id, Name: "artist"}, nil
}
func (m *mockArtistRepo) List(ctx context.Context, f domain.ArtistFilter) ([]domain.Artist, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, f)
	}
	return nil, 0, nil
}

type mockSpotRepo struct {
	inBoundsFn func(ctx context.Context, f domain.SpotFilter) ([]domain.Spot, error)
	getByIDFn  func(ctx context.Context, id int64) (*domain.Spot, error)
}

func (m *mockSpotRepo) UpsertBatch(ctx context.Context, s []domain.Spot) error { return nil }
func (m *mockSpotRepo) LinkArtists(ctx context.Context, l []domain.SpotArtistLink) error {
	return nil
}
func (m *mockSpotRepo) LinkContents(ctx context.Context, l []domain.SpotContentLink) error {
	return nil
}
func (m *mockSpotRepo) GetByID(ctx context.Context, id int64) (*domain.Spot, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}
func (m *mockSpotRepo) InBounds(ctx context.Context, f domain.SpotFilter) ([]domain.Spot, error) {
	if m.inBoundsFn != nil {
		return m.inBoundsFn(ctx, f)
	}
	return nil, nil
}

type mockContentRepo struct {
	searchFn         func(ctx context.Context, f domain.ContentFilter) ([]domain.Content, error)
	listForArtistsFn func(ctx context.Context, ids []int64) ([]domain.Content, error)
}

func (m *mockContentRepo) UpsertBatch(ctx context.Context, c []domain.Content) error { return nil }
func (m *mockContentRepo) Search(ctx context.Context, f domain.ContentFilter) ([]domain.Content, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, f)
	}
	return nil, nil
}
func (m *mockContentRepo) ListForArtists(ctx context.Context, ids []int64) ([]domain.Content, error) {
	if m.listForArtistsFn != nil {
		return m.listForArtistsFn(ctx, ids)
	}
	return nil, nil
}
func (m *mockContentRepo) Associations(ctx context.Context, ids []int64) (domain.ContentAssociations, error) {
	return domain.ContentAssociations{}, nil
}

type mockFollowRepo struct {
	follows map[int64][]int64
}

func (m *mockFollowRepo) ListArtists(ctx context.Context, userID int64) ([]domain.FollowedArtist, error) {
	var out []domain.FollowedArtist
	for _, id := range m.follows[userID] {
		out = append(out, domain.FollowedArtist{Artist: domain.Artist{ID: id}})
	}
	return out, nil
}
func (m *mockFollowRepo) ArtistIDs(ctx context.Context, userID int64) ([]int64, error) {
	return m.follows[userID], nil
}
func (m *mockFollowRepo) Follow(ctx context.Context, userID, artistID int64) (domain.FollowStatus, error) {
	for _, id := range m.follows[userID] {
		if id == artistID {
			return domain.FollowExists, nil
		}
	}
	m.follows[userID] = append(m.follows[userID], artistID)
	return domain.FollowCreated, nil
}
func (m *mockFollowRepo) Unfollow(ctx context.Context, userID, artistID int64) error { return nil }

type mockTripRunner struct {
	started usecases.TripRequest
	results map[string]*domain.TripPlan
}

func (m *mockTripRunner) StartTripPlan(ctx context.Context, req usecases.TripRequest) (string, error) {
	m.started = req
	return "trip-1", nil
}
func (m *mockTripRunner) TripPlanResult(ctx context.Context, id string) (*domain.TripPlan, error) {
	plan, ok := m.results[id]
	if !ok {
		return nil, domain.ErrPending
	}
	return plan, nil
}

// ---- Test helpers ----

type repos struct {
	users    *mockUserRepo
	artists  *mockArtistRepo
	spots    *mockSpotRepo
	contents *mockContentRepo
	follows  *mockFollowRepo
}

func newRepos() *repos {
	return &repos{
		users:    &mockUserRepo{known: map[int64]bool{1: true}},
		artists:  &mockArtistRepo{},
		spots:    &mockSpotRepo{},
		contents: &mockContentRepo{},
		follows:  &mockFollowRepo{follows: map[int64][]int64{}},
	}
}

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func makeDeps(r *repos, opts ...func(*handler.Dependencies)) *handler.Dependencies {
	follows := usecases.NewFollowService(r.users, r.artists, r.follows, nil, nil)
	spots := usecases.NewSpotService(r.spots, r.contents, nil)
	planner := usecases.NewPlannerService(r.users, follows, r.contents, nil)
	d := &handler.Dependencies{
		Artists:  usecases.NewArtistService(r.artists),
		Spots:    spots,
		Contents: usecases.NewContentService(r.contents, r.users),
		Follows:  follows,
		Planner:  planner,
		Trips:    usecases.NewTripService(spots, planner),
		Maps:     usecases.NewMapsService(nil, nil),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func readBody(t *testing.T, body io.Reader) []byte {
	t.Helper()
	b, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return b
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, []byte, http.Header) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, readBody(t, resp.Body), resp.Header
}

func decode(t *testing.T, data []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
}

func ptr[T any](v T) *T { return &v }

// ---- Artist handler tests ----

func TestListArtists_Paginated(t *testing.T) {
	r := newRepos()
	var got domain.ArtistFilter
	r.artists.listFn = func(ctx context.Context, f domain.ArtistFilter) ([]domain.Artist, int, error) {
		got = f
		return []domain.Artist{{ID: 3, Name: "Aimer"}}, 7, nil
	}
	app := setupApp(makeDeps(r))

	status, body, header := do(t, app, "GET", "/v1/artists?q=ai&limit=2&offset=2", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if got.Query != "ai" || got.Limit != 2 || got.Offset != 2 {
		t.Errorf("unexpected filter %+v", got)
	}

	var result struct {
		Data       []domain.Artist    `json:"data"`
		Pagination handler.Pagination `json:"pagination"`
	}
	decode(t, body, &result)
	if len(result.Data) != 1 || result.Pagination.Total != 7 {
		t.Errorf("unexpected page %+v", result)
	}

	link := header.Get("Link")
	if !strings.Contains(link, `rel="next"`) || !strings.Contains(link, "q=ai") {
		t.Errorf("expected next link keeping q, got %q", link)
	}
	if cc := header["Cache-Control"]; len(cc) == 0 || cc[0] != "public, max-age=600" {
		t.Errorf("unexpected Cache-Control %v", cc)
	}
}

func TestListArtists_EmptyIsArray(t *testing.T) {
	app := setupApp(makeDeps(newRepos()))

	status, body, _ := do(t, app, "GET", "/v1/artists", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(string(body), `"data":[]`) {
		t.Errorf("expected empty data array, got %s", body)
	}
}

func TestGetArtist_NotFound(t *testing.T) {
	r := newRepos()
	r.artists.getByIDFn = func(ctx context.Context, id int64) (*domain.Artist, error) {
		return nil, domain.ErrNotFound
	}
	app := setupApp(makeDeps(r))

	status, body, _ := do(t, app, "GET", "/v1/artists/42", "")
	if status != 404 {
		t.Fatalf("expected 404, got %d", status)
	}
	var apiErr handler.APIError
	decode(t, body, &apiErr)
	if apiErr.Code != "not_found" {
		t.Errorf("expected not_found, got %q", apiErr.Code)
	}
}

func TestGetArtist_BadID(t *testing.T) {
	app := setupApp(makeDeps(newRepos()))

	status, _, _ := do(t, app, "GET", "/v1/artists/abc", "")
	if status != 400 {
		t.Fatalf("expected 400, got %d", status)
	}
}

// ---- Spot handler tests ----

func TestListSpots_RequiresBBox(t *testing.T) {
	app := setupApp(makeDeps(newRepos()))

	for _, target := range []string{
		"/v1/spots",
		"/v1/spots?bbox=1,2,3",
		"/v1/spots?bbox=36,139,35,140", // min > max
		"/v1/spots?bbox=35,139,36,140&origin=95,0",
	} {
		status, body, _ := do(t, app, "GET", target, "")
		if status != 422 {
			t.Errorf("%s: expected 422, got %d: %s", target, status, body)
		}
	}
}

func TestListSpots_SortedByOrigin(t *testing.T) {
	r := newRepos()
	r.spots.inBoundsFn = func(ctx context.Context, f domain.SpotFilter) ([]domain.Spot, error) {
		return []domain.Spot{
			{ID: 1, Name: "far", Location: domain.GeoPoint{Lat: 35.9, Lng: 139.9}},
			{ID: 2, Name: "near", Location: domain.GeoPoint{Lat: 35.68, Lng: 139.76}},
		}, nil
	}
	app := setupApp(makeDeps(r))

	status, body, _ := do(t, app, "GET", "/v1/spots?bbox=35.5,139.5,36,140&origin=35.68,139.76", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var result struct {
		Count int           `json:"count"`
		Items []domain.Spot `json:"items"`
	}
	decode(t, body, &result)
	if result.Count != 2 || result.Items[0].ID != 2 {
		t.Fatalf("expected nearest spot first, got %+v", result.Items)
	}
	if result.Items[0].DistanceKm == nil || *result.Items[0].DistanceKm != 0 {
		t.Errorf("expected distance 0 for spot at origin, got %v", result.Items[0].DistanceKm)
	}
}

// Route (38.5,-120.2) -> (40.7,-120.95) -> (43.252,-126.453).
const samplePolyline = "_p~iF~ps|U_ulLnnqC_mqNvxq`@"

func TestSpotsAlongRoute(t *testing.T) {
	r := newRepos()
	r.spots.inBoundsFn = func(ctx context.Context, f domain.SpotFilter) ([]domain.Spot, error) {
		return []domain.Spot{
			{ID: 1, Name: "on route", Location: domain.GeoPoint{Lat: 40.7, Lng: -120.95}},
			{ID: 2, Name: "off route", Location: domain.GeoPoint{Lat: 40.7, Lng: -118.0}},
		}, nil
	}
	app := setupApp(makeDeps(r))

	status, body, header := do(t, app, "GET", "/v1/spots/along-route?polyline="+samplePolyline, "")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var result struct {
		Count       int                `json:"count"`
		BufferM     float64            `json:"buffer_m"`
		RoutePoints int                `json:"route_points"`
		Items       []domain.RouteSpot `json:"items"`
	}
	decode(t, body, &result)
	if result.Count != 1 || result.Items[0].ID != 1 {
		t.Fatalf("expected only the on-route spot, got %+v", result.Items)
	}
	if result.BufferM != 300 || result.RoutePoints != 3 {
		t.Errorf("unexpected buffer %v / points %d", result.BufferM, result.RoutePoints)
	}
	if cc := header["Cache-Control"]; len(cc) == 0 || cc[0] != "public, max-age=60" {
		t.Errorf("unexpected Cache-Control %v", cc)
	}
}

func TestSpotsAlongRoute_BadPolyline(t *testing.T) {
	app := setupApp(makeDeps(newRepos()))

	status, body, _ := do(t, app, "GET", "/v1/spots/along-route?polyline=_p~iF~ps", "")
	if status != 422 {
		t.Fatalf("expected 422, got %d: %s", status, body)
	}
	var apiErr handler.APIError
	decode(t, body, &apiErr)
	if !strings.HasPrefix(apiErr.Message, "polyline:") {
		t.Errorf("expected polyline decode message, got %q", apiErr.Message)
	}

	status, _, _ = do(t, app, "GET", "/v1/spots/along-route", "")
	if status != 422 {
		t.Errorf("missing polyline: expected 422, got %d", status)
	}
}

func TestSpotsAlongRoute_BadBuffer(t *testing.T) {
	r := newRepos()
	r.spots.inBoundsFn = func(ctx context.Context, f domain.SpotFilter) ([]domain.Spot, error) {
		return []domain.Spot{{ID: 1, Location: domain.GeoPoint{Lat: 38.5, Lng: -120.2}}}, nil
	}
	app := setupApp(makeDeps(r))

	for _, buf := range []string{"NaN", "Inf", "-Inf", "abc", "-5", "9000"} {
		status, body, _ := do(t, app, "GET", "/v1/spots/along-route?polyline="+samplePolyline+"&buffer_m="+buf, "")
		if status != 422 {
			t.Errorf("buffer_m=%s: expected 422, got %d: %s", buf, status, body)
		}
	}

	status, body, _ := do(t, app, "GET", "/v1/spots/along-route?polyline="+samplePolyline+"&buffer_m=50", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var result struct {
		Count   int     `json:"count"`
		BufferM float64 `json:"buffer_m"`
	}
	decode(t, body, &result)
	if result.Count != 1 || result.BufferM != 50 {
		t.Errorf("expected vertex spot with buffer 50, got %+v", result)
	}
}

func TestGetSpot_NotFound(t *testing.T) {
	app := setupApp(makeDeps(newRepos()))

	status, _, _ := do(t, app, "GET", "/v1/spots/9", "")
	if status != 404 {
		t.Fatalf("expected 404, got %d", status)
	}
}

// ---- Content handler tests ----

func TestSearchContents_Filters(t *testing.T) {
	r := newRepos()
	var got domain.ContentFilter
	r.contents.searchFn = func(ctx context.Context, f domain.ContentFilter) ([]domain.Content, error) {
		got = f
		return []domain.Content{{ID: 5, Title: "clip", MediaType: "youtube"}}, nil
	}
	app := setupApp(makeDeps(r))

	status, body, _ := do(t, app, "GET", "/v1/contents?artist_id=3&langs=ja,en&max_duration=10", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if got.ArtistID == nil || *got.ArtistID != 3 {
		t.Errorf("expected artist filter 3, got %v", got.ArtistID)
	}
	if len(got.Languages) != 2 || got.MaxDuration == nil || *got.MaxDuration != 10 {
		t.Errorf("unexpected filter %+v", got)
	}
}

func TestSearchContents_BadNumber(t *testing.T) {
	app := setupApp(makeDeps(newRepos()))

	status, _, _ := do(t, app, "GET", "/v1/contents?spot_id=x", "")
	if status != 422 {
		t.Fatalf("expected 422, got %d", status)
	}
}

// ---- Follow handler tests ----

func TestFollowArtist_CreatedThenExists(t *testing.T) {
	app := setupApp(makeDeps(newRepos()))

	for _, want := range []string{"created", "exists"} {
		status, body, _ := do(t, app, "POST", "/v1/users/1/artists/7", "")
		if status != 200 {
			t.Fatalf("expected 200, got %d: %s", status, body)
		}
		var result struct {
			Status string `json:"status"`
		}
		decode(t, body, &result)
		if result.Status != want {
			t.Errorf("expected %q, got %q", want, result.Status)
		}
	}

	status, body, header := do(t, app, "GET", "/v1/users/1/artists", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(string(body), `"count":1`) {
		t.Errorf("expected one followed artist, got %s", body)
	}
	if cc := header["Cache-Control"]; len(cc) == 0 || cc[0] != "private, no-store" {
		t.Errorf("unexpected Cache-Control %v", cc)
	}
}

func TestFollowArtist_UnknownUser(t *testing.T) {
	app := setupApp(makeDeps(newRepos()))

	status, _, _ := do(t, app, "POST", "/v1/users/99/artists/7", "")
	if status != 404 {
		t.Fatalf("expected 404, got %d", status)
	}
}

func TestUnfollowArtist_NoContent(t *testing.T) {
	app := setupApp(makeDeps(newRepos()))

	status, _, _ := do(t, app, "DELETE", "/v1/users/1/artists/7", "")
	if status != 204 {
		t.Fatalf("expected 204, got %d", status)
	}
}

// ---- Planner handler tests ----

func plannerRepos() *repos {
	r := newRepos()
	r.follows.follows[1] = []int64{10}
	r.contents.listForArtistsFn = func(ctx context.Context, ids []int64) ([]domain.Content, error) {
		return []domain.Content{
			{ID: 1, Title: "a", MediaType: "youtube", Lang: ptr("ja"), DurationMin: ptr(30)},
			{ID: 2, Title: "b", MediaType: "youtube", Lang: ptr("ja"), DurationMin: ptr(25)},
		}, nil
	}
	return r
}

func TestComposePlaylist_Success(t *testing.T) {
	app := setupApp(makeDeps(plannerRepos()))

	status, body, _ := do(t, app, "POST", "/v1/planner/playlist", `{"user_id":1,"target_duration_min":60}`)
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var pl domain.Playlist
	decode(t, body, &pl)
	if len(pl.Entries) != 2 || pl.Summary.TotalDurationMin != 55 {
		t.Fatalf("unexpected playlist %+v", pl)
	}
	if pl.Summary.TargetDurationMin != 60 || pl.Summary.OverageMin != 0 {
		t.Errorf("unexpected summary %+v", pl.Summary)
	}
}

func TestComposePlaylist_Validation(t *testing.T) {
	app := setupApp(makeDeps(plannerRepos()))

	status, body, _ := do(t, app, "POST", "/v1/planner/playlist", `{"target_duration_min":0,"max_items":500}`)
	if status != 422 {
		t.Fatalf("expected 422, got %d: %s", status, body)
	}
	var apiErr handler.APIError
	decode(t, body, &apiErr)
	if apiErr.Code != "validation_failed" || len(apiErr.Fields) != 3 {
		t.Errorf("expected three field errors, got %+v", apiErr)
	}

	status, _, _ = do(t, app, "POST", "/v1/planner/playlist", `{not json`)
	if status != 400 {
		t.Errorf("malformed body: expected 400, got %d", status)
	}
}

func TestComposePlaylist_NoFollows(t *testing.T) {
	r := plannerRepos()
	r.follows.follows[1] = nil
	app := setupApp(makeDeps(r))

	status, _, _ := do(t, app, "POST", "/v1/planner/playlist", `{"user_id":1,"target_duration_min":60}`)
	if status != 404 {
		t.Fatalf("expected 404, got %d", status)
	}
}

func TestPlanTrip_SpotsOnly(t *testing.T) {
	app := setupApp(makeDeps(newRepos()))

	status, body, _ := do(t, app, "POST", "/v1/planner/trips", `{"polyline":"`+samplePolyline+`"}`)
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var plan domain.TripPlan
	decode(t, body, &plan)
	if len(plan.Route) != 3 || plan.Playlist != nil || plan.Spots == nil {
		t.Errorf("unexpected plan %+v", plan)
	}
}

func TestStartTripPlan_Disabled(t *testing.T) {
	app := setupApp(makeDeps(newRepos()))

	status, _, _ := do(t, app, "POST", "/v1/planner/trips/async", `{"polyline":"`+samplePolyline+`"}`)
	if status != 503 {
		t.Fatalf("expected 503, got %d", status)
	}
}

func TestTripPlanAsync_Lifecycle(t *testing.T) {
	runner := &mockTripRunner{results: map[string]*domain.TripPlan{}}
	app := setupApp(makeDeps(newRepos(), func(d *handler.Dependencies) { d.TripRuns = runner }))

	status, body, header := do(t, app, "POST", "/v1/planner/trips/async",
		`{"polyline":"`+samplePolyline+`","user_id":1,"duration_min":40}`)
	if status != 202 {
		t.Fatalf("expected 202, got %d: %s", status, body)
	}
	if loc := header["Location"]; len(loc) == 0 || loc[0] != "/v1/planner/trips/trip-1" {
		t.Errorf("unexpected Location %v", loc)
	}
	if runner.started.ToleranceMinutes != 5 || runner.started.MaxItems != 20 {
		t.Errorf("expected defaults applied, got %+v", runner.started)
	}

	status, _, _ = do(t, app, "GET", "/v1/planner/trips/trip-1", "")
	if status != 202 {
		t.Fatalf("pending: expected 202, got %d", status)
	}

	runner.results["trip-1"] = &domain.TripPlan{Polyline: samplePolyline}
	status, body, _ = do(t, app, "GET", "/v1/planner/trips/trip-1", "")
	if status != 200 || !strings.Contains(string(body), `"status":"completed"`) {
		t.Fatalf("completed: got %d %s", status, body)
	}
}

func TestPlannerHealth(t *testing.T) {
	app := setupApp(makeDeps(newRepos()))

	status, body, _ := do(t, app, "GET", "/v1/planner/health", "")
	if status != 200 || !strings.Contains(string(body), `"algorithm":"greedy"`) {
		t.Fatalf("unexpected response %d %s", status, body)
	}
}

// ---- Maps handler tests ----

func TestMaps_Unavailable(t *testing.T) {
	app := setupApp(makeDeps(newRepos()))

	for _, target := range []string{"/v1/maps/autocomplete?q=tokyo", "/bff/maps/autocomplete?q=tokyo"} {
		status, _, _ := do(t, app, "GET", target, "")
		if status != 503 {
			t.Errorf("%s: expected 503, got %d", target, status)
		}
	}
}

func TestMaps_MissingQuery(t *testing.T) {
	app := setupApp(makeDeps(newRepos()))

	status, _, _ := do(t, app, "GET", "/v1/maps/search-text", "")
	if status != 422 {
		t.Fatalf("expected 422, got %d", status)
	}
}

// ---- Ops tests ----

func TestHealth(t *testing.T) {
	app := setupApp(makeDeps(newRepos()))

	status, body, _ := do(t, app, "GET", "/v1/health", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	var result map[string]any
	decode(t, body, &result)
	if result["status"] != "healthy" || result["version"] != handler.Version {
		t.Errorf("unexpected health %v", result)
	}
}

func TestReady_NoDatabase(t *testing.T) {
	app := setupApp(makeDeps(newRepos()))

	status, body, _ := do(t, app, "GET", "/v1/ready", "")
	if status != 503 {
		t.Fatalf("expected 503, got %d: %s", status, body)
	}
}

func TestDocs(t *testing.T) {
	app := setupApp(makeDeps(newRepos()))

	status, body, header := do(t, app, "GET", "/docs", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(string(body), "<title>Bloomix API 1.0.0</title>") {
		t.Errorf("page title not taken from the document")
	}
	if ct := header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("unexpected content type %q", ct)
	}

	status, body, header = do(t, app, "GET", "/docs/openapi.yaml", "")
	if status != 200 || header.Get("Content-Type") != "application/yaml" {
		t.Fatalf("yaml: got %d %q", status, header.Get("Content-Type"))
	}
	if !strings.HasPrefix(string(body), "openapi: 3.0.3") {
		t.Errorf("yaml body not served verbatim")
	}

	status, body, _ = do(t, app, "GET", "/docs/openapi.json", "")
	if status != 200 {
		t.Fatalf("json: expected 200, got %d", status)
	}
	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]any `json:"paths"`
	}
	decode(t, body, &doc)
	if doc.Info.Title != "Bloomix API" {
		t.Errorf("unexpected title %q", doc.Info.Title)
	}
	if _, ok := doc.Paths["/v1/spots/along-route"]; !ok {
		t.Errorf("along-route path missing from json view")
	}
}

func TestLegacyAPI_Deprecated(t *testing.T) {
	app := setupApp(makeDeps(newRepos()))

	status, _, header := do(t, app, "GET", "/api/v1/oshis", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if header.Get("Deprecation") != "true" {
		t.Errorf("missing Deprecation header")
	}
	sunset, err := time.Parse(time.RFC1123, header.Get("Sunset"))
	if err != nil || sunset.Year() != 2027 {
		t.Errorf("unexpected Sunset %q", header.Get("Sunset"))
	}
	if !strings.Contains(header.Get("Link"), "</v1/artists>") {
		t.Errorf("expected successor link to /v1/artists, got %q", header.Get("Link"))
	}
}

func TestRequestIDInErrors(t *testing.T) {
	app := setupApp(makeDeps(newRepos()))

	_, body, header := do(t, app, "GET", "/v1/spots", "")
	var apiErr handler.APIError
	decode(t, body, &apiErr)
	if apiErr.RequestID == "" || apiErr.RequestID != header.Get("X-Request-Id") {
		t.Errorf("request id %q does not match header %q", apiErr.RequestID, header.Get("X-Request-Id"))
	}
}

func TestGraphQL_Artists(t *testing.T) {
	r := newRepos()
	r.artists.listFn = func(ctx context.Context, f domain.ArtistFilter) ([]domain.Artist, int, error) {
		return []domain.Artist{{ID: 1, Name: "Aimer", Category: "music"}}, 1, nil
	}
	app := setupApp(makeDeps(r))

	status, body, _ := do(t, app, "POST", "/graphql", `{"query":"{ artists { id name } }"}`)
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if !strings.Contains(string(body), `"name":"Aimer"`) {
		t.Errorf("unexpected graphql result %s", body)
	}

	status, _, _ = do(t, app, "POST", "/graphql", `{"query":""}`)
	if status != 400 {
		t.Errorf("empty query: expected 400, got %d", status)
	}
}

func TestInternalErrorHidden(t *testing.T) {
	r := newRepos()
	r.artists.listFn = func(ctx context.Context, f domain.ArtistFilter) ([]domain.Artist, int, error) {
		return nil, 0, errors.New("connection refused on 10.0.0.3")
	}
	app := setupApp(makeDeps(r))

	status, body, _ := do(t, app, "GET", "/v1/artists", "")
	if status != 500 {
		t.Fatalf("expected 500, got %d", status)
	}
	if strings.Contains(string(body), "10.0.0.3") {
		t.Errorf("internal detail leaked: %s", body)
	}
}
