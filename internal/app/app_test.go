package app

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"pcbuilder/internal/cache"
	"pcbuilder/internal/gateway"
	"pcbuilder/internal/models"
)

type fakeGateway struct {
	loginResult    gateway.Result
	registerResult gateway.Result
	authResult     gateway.Result
	logoutResult   gateway.Result
	chatResult     gateway.Result
	listResult     gateway.Result
	galleryResult  gateway.Result
	saveResult     gateway.Result
	deleteResult   gateway.Result

	chatCalls   int
	saveCalls   int
	deleteCalls int
}

func (f *fakeGateway) Login(ctx context.Context, username, password string) gateway.Result {
	return f.loginResult
}

func (f *fakeGateway) Register(ctx context.Context, name, username, password string) gateway.Result {
	return f.registerResult
}

func (f *fakeGateway) CheckAuth(ctx context.Context) gateway.Result {
	return f.authResult
}

func (f *fakeGateway) Logout(ctx context.Context) gateway.Result {
	return f.logoutResult
}

func (f *fakeGateway) SendChatMessage(ctx context.Context, message, sessionID string) gateway.Result {
	f.chatCalls++
	return f.chatResult
}

func (f *fakeGateway) RequestEstimate(ctx context.Context, req gateway.Requirements, sessionID string) gateway.Result {
	f.chatCalls++
	return f.chatResult
}

func (f *fakeGateway) GetEstimateList(ctx context.Context) gateway.Result {
	return f.listResult
}

func (f *fakeGateway) GetAllEstimates(ctx context.Context) gateway.Result {
	return f.galleryResult
}

func (f *fakeGateway) SaveEstimate(ctx context.Context, est *models.Estimate, sessionID string) gateway.Result {
	f.saveCalls++
	return f.saveResult
}

func (f *fakeGateway) DeleteEstimate(ctx context.Context, id string) gateway.Result {
	f.deleteCalls++
	return f.deleteResult
}

func ok(data map[string]interface{}) gateway.Result {
	return gateway.Result{Success: true, Status: 200, Data: data}
}

func setupTestApp(t *testing.T, gw Gateway) (*App, *[]Notification) {
	store, err := cache.Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})

	a := New(gw, store)
	notices := &[]Notification{}
	a.OnNotify(func(n Notification) {
		*notices = append(*notices, n)
	})
	return a, notices
}

func lastNotice(t *testing.T, notices *[]Notification) Notification {
	t.Helper()
	if len(*notices) == 0 {
		t.Fatal("Expected a notification")
	}
	return (*notices)[len(*notices)-1]
}

const estimateReply = `{"cpu":{"name":"Ryzen 5","price":229000},"total_price":229000}`

func TestSendResolvesPlaceholder(t *testing.T) {
	gw := &fakeGateway{chatResult: ok(map[string]interface{}{"response": estimateReply})}
	a, _ := setupTestApp(t, gw)

	a.Send(context.Background(), "게이밍 PC 추천해줘")

	transcript := a.Transcript()
	if len(transcript) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(transcript))
	}
	if transcript[0].Role != models.RoleUser || transcript[0].Content != "게이밍 PC 추천해줘" {
		t.Errorf("Unexpected user message: %+v", transcript[0])
	}
	reply := transcript[1]
	if reply.Pending {
		t.Error("Expected placeholder resolved")
	}
	if reply.Content != estimateReply {
		t.Errorf("Expected reply content, got %q", reply.Content)
	}
	if a.LastEstimate() == nil {
		t.Error("Expected last estimate parsed from reply")
	}
	if a.Sending() {
		t.Error("Expected sending flag cleared")
	}
}

func TestSendTransportFailure(t *testing.T) {
	gw := &fakeGateway{chatResult: gateway.Result{Err: "connection refused"}}
	a, notices := setupTestApp(t, gw)

	a.Send(context.Background(), "안녕하세요")

	transcript := a.Transcript()
	if len(transcript) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(transcript))
	}
	if transcript[1].Pending {
		t.Error("Expected placeholder resolved even on failure")
	}
	if transcript[1].Content != chatNetworkFailureText {
		t.Errorf("Expected network failure text, got %q", transcript[1].Content)
	}
	if a.LastEstimate() != nil {
		t.Error("Expected no estimate from failure text")
	}
	n := lastNotice(t, notices)
	if n.Level != LevelError || n.Message != networkFailureNotice {
		t.Errorf("Unexpected notification: %+v", n)
	}
}

func TestSendSoftFailure(t *testing.T) {
	gw := &fakeGateway{chatResult: ok(map[string]interface{}{"success": false})}
	a, notices := setupTestApp(t, gw)

	a.Send(context.Background(), "안녕하세요")

	transcript := a.Transcript()
	if transcript[1].Content != chatFailureText {
		t.Errorf("Expected soft failure text, got %q", transcript[1].Content)
	}
	n := lastNotice(t, notices)
	if n.Level != LevelWarning || n.Message != softFailureNotice {
		t.Errorf("Unexpected notification: %+v", n)
	}
}

func TestSendSoftFailureUsesPayloadMessage(t *testing.T) {
	gw := &fakeGateway{chatResult: ok(map[string]interface{}{
		"success": false,
		"message": "모델 점검 중입니다.",
	})}
	a, notices := setupTestApp(t, gw)

	a.Send(context.Background(), "안녕하세요")

	n := lastNotice(t, notices)
	if n.Message != "모델 점검 중입니다." {
		t.Errorf("Expected payload message, got %q", n.Message)
	}
}

func TestSendIgnoresBlank(t *testing.T) {
	gw := &fakeGateway{}
	a, _ := setupTestApp(t, gw)

	a.Send(context.Background(), "   ")
	if len(a.Transcript()) != 0 {
		t.Error("Expected blank input ignored")
	}
	if gw.chatCalls != 0 {
		t.Error("Expected no network call for blank input")
	}
}

// gatedGateway blocks chat and search calls until a reply is fed through
// the matching channel, so tests can hold two requests in flight at once.
type gatedGateway struct {
	fakeGateway
	chatReplies   chan gateway.Result
	searchReplies chan gateway.Result
}

func (g *gatedGateway) SendChatMessage(ctx context.Context, message, sessionID string) gateway.Result {
	return <-g.chatReplies
}

func (g *gatedGateway) RequestEstimate(ctx context.Context, req gateway.Requirements, sessionID string) gateway.Result {
	return <-g.searchReplies
}

func TestInterleavedSendAndSearchPatchOwnPlaceholders(t *testing.T) {
	gw := &gatedGateway{
		chatReplies:   make(chan gateway.Result),
		searchReplies: make(chan gateway.Result),
	}
	a, _ := setupTestApp(t, gw)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		a.Send(context.Background(), "채팅 질문")
	}()
	go func() {
		defer wg.Done()
		a.Search(context.Background(), "검색 질문")
	}()

	deadline := time.Now().Add(2 * time.Second)
	for len(a.Transcript()) < 4 {
		if time.Now().After(deadline) {
			t.Fatalf("Expected 4 transcript entries, got %d", len(a.Transcript()))
		}
		time.Sleep(5 * time.Millisecond)
	}

	// The search settles first even though both turns are in flight.
	gw.searchReplies <- ok(map[string]interface{}{"response": "검색 응답"})
	gw.chatReplies <- ok(map[string]interface{}{"response": "채팅 응답"})
	wg.Wait()

	replies := map[string]string{
		"채팅 질문": "채팅 응답",
		"검색 질문": "검색 응답",
	}
	transcript := a.Transcript()
	if len(transcript) != 4 {
		t.Fatalf("Expected 4 transcript entries, got %d", len(transcript))
	}
	for i, msg := range transcript {
		if msg.Role != models.RoleUser {
			continue
		}
		if i+1 >= len(transcript) {
			t.Fatalf("Expected a reply slot after %q", msg.Content)
		}
		slot := transcript[i+1]
		if slot.Pending {
			t.Errorf("Expected slot for %q resolved", msg.Content)
		}
		if want := replies[msg.Content]; slot.Content != want {
			t.Errorf("Expected %q resolved to %q, got %q", msg.Content, want, slot.Content)
		}
	}
}

func TestSearchUsesFallbackReply(t *testing.T) {
	// A 200 with an empty body decodes to a nil payload.
	gw := &fakeGateway{chatResult: gateway.Result{Success: true, Status: 200}}
	a, _ := setupTestApp(t, gw)

	a.Search(context.Background(), "영상편집용 PC")

	if a.Screen() != ScreenChat {
		t.Errorf("Expected chat screen, got %q", a.Screen())
	}
	transcript := a.Transcript()
	if len(transcript) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(transcript))
	}
	if !strings.Contains(transcript[1].Content, "영상편집용 PC") {
		t.Errorf("Expected fallback reply echoing the query, got %q", transcript[1].Content)
	}
}

func TestLoginRequiresFields(t *testing.T) {
	gw := &fakeGateway{}
	a, notices := setupTestApp(t, gw)

	if a.Login(context.Background(), "", "pw") {
		t.Error("Expected login rejected without username")
	}
	n := lastNotice(t, notices)
	if n.Message != "사용자명과 비밀번호를 입력해주세요." {
		t.Errorf("Unexpected message: %q", n.Message)
	}
}

func TestLoginSuccessAdoptsUser(t *testing.T) {
	gw := &fakeGateway{loginResult: ok(map[string]interface{}{
		"success": true,
		"user":    map[string]interface{}{"username": "demo", "name": "데모"},
	})}
	a, notices := setupTestApp(t, gw)

	if !a.Login(context.Background(), "demo", "demo1234") {
		t.Fatal("Expected login to succeed")
	}
	user := a.User()
	if user == nil || user.Username != "demo" {
		t.Fatalf("Expected adopted user, got %+v", user)
	}
	if a.Screen() != ScreenMain {
		t.Errorf("Expected main screen after login, got %q", a.Screen())
	}
	n := lastNotice(t, notices)
	if n.Level != LevelSuccess || !strings.Contains(n.Message, "데모") {
		t.Errorf("Unexpected notification: %+v", n)
	}
}

func TestLoginBusinessFailure(t *testing.T) {
	gw := &fakeGateway{loginResult: ok(map[string]interface{}{
		"success": false,
		"message": "아이디 또는 비밀번호가 올바르지 않습니다.",
	})}
	a, notices := setupTestApp(t, gw)

	if a.Login(context.Background(), "demo", "wrong") {
		t.Error("Expected login to fail")
	}
	if a.User() != nil {
		t.Error("Expected no user after failed login")
	}
	n := lastNotice(t, notices)
	if n.Message != "아이디 또는 비밀번호가 올바르지 않습니다." {
		t.Errorf("Expected backend message, got %q", n.Message)
	}
}

func TestRegisterValidation(t *testing.T) {
	gw := &fakeGateway{}
	a, notices := setupTestApp(t, gw)
	ctx := context.Background()

	if a.Register(ctx, "", "user1", "password1") {
		t.Error("Expected rejection for empty name")
	}
	if lastNotice(t, notices).Message != "모든 필드를 입력해주세요." {
		t.Errorf("Unexpected message: %q", lastNotice(t, notices).Message)
	}

	if a.Register(ctx, "이름", "user1", "short") {
		t.Error("Expected rejection for short password")
	}
	if lastNotice(t, notices).Message != "비밀번호는 6자 이상이어야 합니다." {
		t.Errorf("Unexpected message: %q", lastNotice(t, notices).Message)
	}

	if a.Register(ctx, "이름", "한글아이디", "password1") {
		t.Error("Expected rejection for non-alphanumeric username")
	}
	if a.Register(ctx, "이름", "abc", "password1") {
		t.Error("Expected rejection for too-short username")
	}
	if lastNotice(t, notices).Message != "아이디는 영문, 숫자 조합 4-20자로 입력해주세요." {
		t.Errorf("Unexpected message: %q", lastNotice(t, notices).Message)
	}
}

func TestRegisterDuplicateByStatus(t *testing.T) {
	gw := &fakeGateway{registerResult: gateway.Result{
		Success: false,
		Status:  409,
		Data:    map[string]interface{}{"success": false},
	}}
	a, notices := setupTestApp(t, gw)

	if a.Register(context.Background(), "이름", "user1", "password1") {
		t.Error("Expected duplicate registration to fail")
	}
	if lastNotice(t, notices).Message != "이미 사용 중인 아이디입니다. 다른 아이디를 입력해주세요." {
		t.Errorf("Unexpected message: %q", lastNotice(t, notices).Message)
	}
}

func TestRegisterDuplicateByMessage(t *testing.T) {
	gw := &fakeGateway{registerResult: ok(map[string]interface{}{
		"success": false,
		"message": "username already exists",
	})}
	a, notices := setupTestApp(t, gw)

	if a.Register(context.Background(), "이름", "user1", "password1") {
		t.Error("Expected duplicate registration to fail")
	}
	if lastNotice(t, notices).Message != "이미 사용 중인 아이디입니다. 다른 아이디를 입력해주세요." {
		t.Errorf("Unexpected message: %q", lastNotice(t, notices).Message)
	}
}

func TestRegisterSuccessMovesToLogin(t *testing.T) {
	gw := &fakeGateway{registerResult: ok(map[string]interface{}{"success": true})}
	a, notices := setupTestApp(t, gw)

	if !a.Register(context.Background(), "이름", "user1", "password1") {
		t.Fatal("Expected registration to succeed")
	}
	if a.Screen() != ScreenLogin {
		t.Errorf("Expected login screen after registration, got %q", a.Screen())
	}
	if !strings.Contains(lastNotice(t, notices).Message, "회원가입 성공") {
		t.Errorf("Unexpected message: %q", lastNotice(t, notices).Message)
	}
}

func TestLogoutClearsStateEvenOnServerFailure(t *testing.T) {
	gw := &fakeGateway{
		loginResult: ok(map[string]interface{}{
			"success": true,
			"user":    map[string]interface{}{"username": "demo", "name": "데모"},
		}),
		chatResult:   ok(map[string]interface{}{"response": estimateReply}),
		logoutResult: gateway.Result{Err: "connection refused"},
	}
	a, notices := setupTestApp(t, gw)
	ctx := context.Background()

	a.Login(ctx, "demo", "demo1234")
	a.Send(ctx, "게이밍 PC")
	a.ToggleComparison(models.SavedEstimate{ID: "1"})

	a.Logout(ctx)

	if a.User() != nil {
		t.Error("Expected user cleared")
	}
	if len(a.Transcript()) != 0 {
		t.Error("Expected transcript cleared")
	}
	if a.LastEstimate() != nil {
		t.Error("Expected last estimate cleared")
	}
	if len(a.Comparison()) != 0 {
		t.Error("Expected comparison cleared")
	}
	if a.Screen() != ScreenMain {
		t.Errorf("Expected main screen, got %q", a.Screen())
	}
	n := lastNotice(t, notices)
	if n.Level != LevelInfo || n.Message != "로그아웃되었습니다." {
		t.Errorf("Unexpected notification: %+v", n)
	}
}

func TestBootstrapAdoptsServerSession(t *testing.T) {
	gw := &fakeGateway{authResult: ok(map[string]interface{}{
		"loggedIn": true,
		"user":     map[string]interface{}{"username": "demo", "name": "데모"},
	})}
	a, _ := setupTestApp(t, gw)

	a.Bootstrap(context.Background())
	user := a.User()
	if user == nil || user.Username != "demo" {
		t.Fatalf("Expected restored user, got %+v", user)
	}
}

func TestBootstrapOverridesCachedUser(t *testing.T) {
	store, err := cache.Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	store.SetCachedUser(models.User{Username: "stale", Name: "스테일"})

	gw := &fakeGateway{authResult: ok(map[string]interface{}{"loggedIn": false})}
	a := New(gw, store)

	if a.User() == nil {
		t.Fatal("Expected cached user before bootstrap")
	}
	a.Bootstrap(context.Background())
	if a.User() != nil {
		t.Error("Expected server answer to override cached session")
	}
	if store.CachedUser() != nil {
		t.Error("Expected cached user cleared after server said logged out")
	}
}

func TestBootstrapTransportFailureKeepsCache(t *testing.T) {
	store, err := cache.Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	store.SetCachedUser(models.User{Username: "demo", Name: "데모"})

	gw := &fakeGateway{authResult: gateway.Result{Err: "connection refused"}}
	a := New(gw, store)

	a.Bootstrap(context.Background())
	if a.User() != nil {
		t.Error("Expected in-memory user dropped on transport failure")
	}
	if store.CachedUser() == nil {
		t.Error("Expected cache kept on transport failure")
	}
}

func TestSaveLastEstimateWithoutSlot(t *testing.T) {
	gw := &fakeGateway{}
	a, notices := setupTestApp(t, gw)

	if a.SaveLastEstimate(context.Background()) {
		t.Error("Expected save rejected without an estimate")
	}
	if gw.saveCalls != 0 {
		t.Error("Expected no network call without an estimate")
	}
	n := lastNotice(t, notices)
	if n.Level != LevelWarning || n.Message != "저장할 수 있는 최신 견적이 없습니다." {
		t.Errorf("Unexpected notification: %+v", n)
	}
}

func TestSaveLastEstimateKeepsSlot(t *testing.T) {
	gw := &fakeGateway{
		chatResult: ok(map[string]interface{}{"response": estimateReply}),
		saveResult: ok(map[string]interface{}{"success": true}),
	}
	a, _ := setupTestApp(t, gw)
	ctx := context.Background()

	a.Send(ctx, "게이밍 PC")
	if !a.SaveLastEstimate(ctx) {
		t.Fatal("Expected save to succeed")
	}
	if a.LastEstimate() == nil {
		t.Error("Expected estimate slot kept after save")
	}
	if !a.SaveLastEstimate(ctx) {
		t.Error("Expected repeated save of the same estimate to work")
	}
}

func TestToggleComparisonCap(t *testing.T) {
	gw := &fakeGateway{}
	a, notices := setupTestApp(t, gw)

	for i, id := range []string{"1", "2", "3"} {
		a.ToggleComparison(models.SavedEstimate{ID: id})
		if len(a.Comparison()) != i+1 {
			t.Fatalf("Expected %d entries, got %d", i+1, len(a.Comparison()))
		}
	}

	a.ToggleComparison(models.SavedEstimate{ID: "4"})
	if len(a.Comparison()) != 3 {
		t.Errorf("Expected cap at 3, got %d", len(a.Comparison()))
	}
	if lastNotice(t, notices).Message != comparisonLimitNotice {
		t.Errorf("Unexpected message: %q", lastNotice(t, notices).Message)
	}

	a.ToggleComparison(models.SavedEstimate{ID: "2"})
	if len(a.Comparison()) != 2 {
		t.Errorf("Expected toggle to remove entry, got %d", len(a.Comparison()))
	}
	a.ToggleComparison(models.SavedEstimate{ID: "4"})
	if len(a.Comparison()) != 3 {
		t.Errorf("Expected room after removal, got %d", len(a.Comparison()))
	}
}

func TestCanCopyToMineRejectsDuplicateParts(t *testing.T) {
	gw := &fakeGateway{
		loginResult: ok(map[string]interface{}{
			"success": true,
			"user":    map[string]interface{}{"username": "demo", "name": "데모"},
		}),
		listResult: ok(map[string]interface{}{
			"success": true,
			"estimates": []interface{}{
				map[string]interface{}{
					"id": "1",
					"data": map[string]interface{}{
						"estimate": map[string]interface{}{
							"cpu":         map[string]interface{}{"name": "Ryzen 5"},
							"total_price": float64(229000),
						},
					},
				},
			},
		}),
	}
	a, _ := setupTestApp(t, gw)
	ctx := context.Background()

	a.Login(ctx, "demo", "demo1234")
	a.LoadMyEstimates(ctx)

	same := models.SavedEstimate{
		ID:       "9",
		Estimate: &models.Estimate{Parts: map[string]models.Part{"cpu": {Name: "Ryzen 5"}}},
	}
	if a.CanCopyToMine(same) {
		t.Error("Expected duplicate parts to block copy")
	}

	different := models.SavedEstimate{
		ID:       "10",
		Estimate: &models.Estimate{Parts: map[string]models.Part{"cpu": {Name: "i5-13400"}}},
	}
	if !a.CanCopyToMine(different) {
		t.Error("Expected different parts to allow copy")
	}

	undecodable := models.SavedEstimate{ID: "11"}
	if a.CanCopyToMine(undecodable) {
		t.Error("Expected record without estimate to block copy")
	}
}

func TestCanCopyToMineRequiresLogin(t *testing.T) {
	gw := &fakeGateway{}
	a, _ := setupTestApp(t, gw)

	rec := models.SavedEstimate{
		ID:       "1",
		Estimate: &models.Estimate{Parts: map[string]models.Part{"cpu": {Name: "Ryzen 5"}}},
	}
	if a.CanCopyToMine(rec) {
		t.Error("Expected copy blocked without login")
	}
}

func TestDeleteEstimateRemovesLocalRecord(t *testing.T) {
	gw := &fakeGateway{
		loginResult: ok(map[string]interface{}{
			"success": true,
			"user":    map[string]interface{}{"username": "demo", "name": "데모"},
		}),
		listResult: ok(map[string]interface{}{
			"success": true,
			"estimates": []interface{}{
				map[string]interface{}{"id": "1", "title": "첫번째"},
				map[string]interface{}{"id": "2", "title": "두번째"},
			},
		}),
		deleteResult: ok(map[string]interface{}{"success": true}),
	}
	a, _ := setupTestApp(t, gw)
	ctx := context.Background()

	a.Login(ctx, "demo", "demo1234")
	a.LoadSaved(ctx)
	if len(a.SavedEstimates()) != 2 {
		t.Fatalf("Expected 2 saved records, got %d", len(a.SavedEstimates()))
	}

	if !a.DeleteEstimate(ctx, "1") {
		t.Fatal("Expected delete to succeed")
	}
	saved := a.SavedEstimates()
	if len(saved) != 1 || saved[0].ID != "2" {
		t.Errorf("Expected only record 2 left, got %+v", saved)
	}
}

func TestLoadSavedRequiresLogin(t *testing.T) {
	gw := &fakeGateway{}
	a, notices := setupTestApp(t, gw)

	a.LoadSaved(context.Background())
	n := lastNotice(t, notices)
	if n.Level != LevelWarning || n.Message != "로그인이 필요합니다." {
		t.Errorf("Unexpected notification: %+v", n)
	}
}

func TestMyTabRequiresLogin(t *testing.T) {
	gw := &fakeGateway{}
	a, notices := setupTestApp(t, gw)

	a.SetActiveTab(context.Background(), TabMy)
	if a.ActiveTab() != TabMy {
		t.Errorf("Expected tab switched, got %q", a.ActiveTab())
	}
	n := lastNotice(t, notices)
	if n.Level != LevelWarning || n.Message != "로그인이 필요합니다." {
		t.Errorf("Unexpected notification: %+v", n)
	}
}

func TestLoadSavedEmptyNotice(t *testing.T) {
	gw := &fakeGateway{
		loginResult: ok(map[string]interface{}{
			"success": true,
			"user":    map[string]interface{}{"username": "demo", "name": "데모"},
		}),
		listResult: ok(map[string]interface{}{"success": true, "estimates": []interface{}{}}),
	}
	a, notices := setupTestApp(t, gw)
	ctx := context.Background()

	a.Login(ctx, "demo", "demo1234")
	a.LoadSaved(ctx)
	n := lastNotice(t, notices)
	if n.Level != LevelInfo || n.Message != "저장된 견적이 없습니다." {
		t.Errorf("Unexpected notification: %+v", n)
	}
}

func TestGalleryListUnwrapsDataKey(t *testing.T) {
	gw := &fakeGateway{galleryResult: ok(map[string]interface{}{
		"success": true,
		"data": []interface{}{
			map[string]interface{}{"id": "1", "title": "공유 견적", "username": "other"},
		},
	})}
	a, _ := setupTestApp(t, gw)

	a.LoadGallery(context.Background())
	gallery := a.GalleryEstimates()
	if len(gallery) != 1 {
		t.Fatalf("Expected 1 gallery record, got %d", len(gallery))
	}
	if gallery[0].Username != "other" {
		t.Errorf("Expected username from row, got %q", gallery[0].Username)
	}
}

func TestGalleryMalformedListYieldsEmpty(t *testing.T) {
	gw := &fakeGateway{galleryResult: ok(map[string]interface{}{
		"success": true,
		"data":    "not a list",
	})}
	a, _ := setupTestApp(t, gw)

	a.LoadGallery(context.Background())
	if len(a.GalleryEstimates()) != 0 {
		t.Errorf("Expected empty gallery for malformed payload, got %d", len(a.GalleryEstimates()))
	}
}
