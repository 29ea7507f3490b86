package app

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"pcbuilder/internal/cache"
	"pcbuilder/internal/gateway"
	"pcbuilder/internal/logger"
	"pcbuilder/internal/models"
)

// Gateway is the slice of the API client the view-model depends on.
type Gateway interface {
	Login(ctx context.Context, username, password string) gateway.Result
	Register(ctx context.Context, name, username, password string) gateway.Result
	CheckAuth(ctx context.Context) gateway.Result
	Logout(ctx context.Context) gateway.Result
	SendChatMessage(ctx context.Context, message, sessionID string) gateway.Result
	RequestEstimate(ctx context.Context, req gateway.Requirements, sessionID string) gateway.Result
	GetEstimateList(ctx context.Context) gateway.Result
	GetAllEstimates(ctx context.Context) gateway.Result
	SaveEstimate(ctx context.Context, est *models.Estimate, sessionID string) gateway.Result
	DeleteEstimate(ctx context.Context, id string) gateway.Result
}

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a transient user-facing notice; the front decides how
// long to show it.
type Notification struct {
	Level   Level
	Message string
}

type Screen string

const (
	ScreenMain    Screen = "main"
	ScreenChat    Screen = "chat"
	ScreenGallery Screen = "gallery"
	ScreenLogin   Screen = "login"
)

type Tab string

const (
	TabAll Tab = "all"
	TabMy  Tab = "my"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9]{4,20}$`)
var duplicateRegex = regexp.MustCompile(`(?i)중복|duplicate|exists|이미`)

// App owns all client-side state: the chat transcript, the authentication
// snapshot, the last structured estimate and the estimate lists. All
// mutation happens under mu; network calls run outside the lock and each
// in-flight request patches only its own placeholder.
type App struct {
	gw    Gateway
	store *cache.Store

	mu               sync.Mutex
	screen           Screen
	activeTab        Tab
	user             *models.User
	sessionID        string
	transcript       []models.ChatMessage
	lastEstimate     *models.Estimate
	myEstimates      []models.SavedEstimate
	galleryEstimates []models.SavedEstimate
	savedEstimates   []models.SavedEstimate
	comparison       []models.SavedEstimate
	darkMode         bool
	sending          bool
	searching        bool

	notify   func(Notification)
	onChange func()
}

func New(gw Gateway, store *cache.Store) *App {
	return &App{
		gw:        gw,
		store:     store,
		screen:    ScreenMain,
		activeTab: TabAll,
		sessionID: store.GetOrCreateSessionID(),
		darkMode:  store.DarkMode(),
		user:      store.CachedUser(),
	}
}

// OnNotify registers the notification subscriber.
func (a *App) OnNotify(fn func(Notification)) {
	a.notify = fn
}

// OnChange registers the render callback, invoked after every state
// change.
func (a *App) OnChange(fn func()) {
	a.onChange = fn
}

func (a *App) sendNotification(level Level, message string) {
	if a.notify != nil {
		a.notify(Notification{Level: level, Message: message})
	}
}

func (a *App) changed() {
	if a.onChange != nil {
		a.onChange()
	}
}

// Bootstrap queries the backend session check. Its answer overrides any
// cached session from a previous visit; a transport failure only drops
// the in-memory user and leaves the cache alone.
func (a *App) Bootstrap(ctx context.Context) {
	res := a.gw.CheckAuth(ctx)
	if !res.Success {
		a.mu.Lock()
		a.user = nil
		a.mu.Unlock()
		a.changed()
		return
	}

	data, _ := res.Data.(map[string]interface{})
	loggedIn, _ := data["loggedIn"].(bool)
	payload := res.UserPayload()
	if loggedIn && payload != nil {
		user := models.User{}
		user.Username, _ = payload["username"].(string)
		user.Name, _ = payload["name"].(string)
		a.store.SetCachedUser(user)
		a.mu.Lock()
		a.user = &user
		a.mu.Unlock()
		logger.Info("session restored", "username", user.Username)
	} else {
		a.store.ClearCachedUser()
		a.mu.Lock()
		a.user = nil
		a.mu.Unlock()
	}
	a.changed()
}

// Login authenticates against the backend. Transport success with a
// nested business failure is reported as a login failure.
func (a *App) Login(ctx context.Context, username, password string) bool {
	if username == "" || password == "" {
		a.sendNotification(LevelError, "사용자명과 비밀번호를 입력해주세요.")
		return false
	}

	res := a.gw.Login(ctx, username, password)
	payload := res.UserPayload()
	if !res.Success || !res.BusinessSuccess() || payload == nil {
		msg := res.DataMessage()
		if msg == "" {
			msg = "로그인에 실패했습니다."
		}
		a.sendNotification(LevelError, msg)
		return false
	}

	user := models.User{}
	user.Username, _ = payload["username"].(string)
	user.Name, _ = payload["name"].(string)
	a.store.SetCachedUser(user)

	a.mu.Lock()
	a.user = &user
	a.screen = ScreenMain
	a.mu.Unlock()

	a.sendNotification(LevelSuccess, fmt.Sprintf("로그인 성공! 환영합니다, %s님", user.Name))
	a.changed()
	return true
}

// Register validates locally, then posts. Duplicate accounts are detected
// from a 409 status or the failure message text.
func (a *App) Register(ctx context.Context, name, username, password string) bool {
	if name == "" || username == "" || password == "" {
		a.sendNotification(LevelError, "모든 필드를 입력해주세요.")
		return false
	}
	if len(password) < 6 {
		a.sendNotification(LevelError, "비밀번호는 6자 이상이어야 합니다.")
		return false
	}
	if !usernameRegex.MatchString(username) {
		a.sendNotification(LevelError, "아이디는 영문, 숫자 조합 4-20자로 입력해주세요.")
		return false
	}

	res := a.gw.Register(ctx, name, username, password)
	if res.Err != "" {
		a.sendNotification(LevelError, "서버 연결에 실패했습니다. 잠시 후 다시 시도해주세요.")
		return false
	}

	msg := res.DataMessage()
	if res.BusinessSuccess() {
		a.sendNotification(LevelSuccess, fmt.Sprintf("회원가입 성공! 환영합니다, %s님!", name))
		a.mu.Lock()
		a.screen = ScreenLogin
		a.mu.Unlock()
		a.changed()
		return true
	}
	if res.Status == 409 || duplicateRegex.MatchString(msg) {
		a.sendNotification(LevelError, "이미 사용 중인 아이디입니다. 다른 아이디를 입력해주세요.")
		return false
	}
	if msg == "" {
		msg = "회원가입에 실패했습니다."
	}
	a.sendNotification(LevelError, msg)
	return false
}

// Logout posts the server-side logout best-effort, then resets every
// piece of client state regardless of the outcome.
func (a *App) Logout(ctx context.Context) {
	res := a.gw.Logout(ctx)
	if !res.Success {
		logger.Warn("server logout failed", "status", res.Status, "error", res.Err)
	}

	a.store.ClearCachedUser()

	a.mu.Lock()
	a.user = nil
	a.screen = ScreenMain
	a.activeTab = TabAll
	a.transcript = nil
	a.lastEstimate = nil
	a.myEstimates = nil
	a.galleryEstimates = nil
	a.savedEstimates = nil
	a.comparison = nil
	a.mu.Unlock()

	a.sendNotification(LevelInfo, "로그아웃되었습니다.")
	a.changed()
}

// SetDarkMode flips the view-model-owned preference and persists it.
func (a *App) SetDarkMode(enabled bool) {
	a.store.SetDarkMode(enabled)
	a.mu.Lock()
	a.darkMode = enabled
	a.mu.Unlock()
	a.changed()
}

func (a *App) SetScreen(screen Screen) {
	a.mu.Lock()
	a.screen = screen
	a.mu.Unlock()
	a.changed()
}

// OpenGallery switches to the gallery view and loads its lists.
func (a *App) OpenGallery(ctx context.Context) {
	a.mu.Lock()
	a.screen = ScreenGallery
	loggedIn := a.user != nil
	a.mu.Unlock()
	a.changed()

	a.LoadGallery(ctx)
	if loggedIn {
		a.LoadMyEstimates(ctx)
	}
}

// SetActiveTab switches the gallery sidebar tab, lazily loading "mine" on
// first entry.
func (a *App) SetActiveTab(ctx context.Context, tab Tab) {
	a.mu.Lock()
	a.activeTab = tab
	loggedIn := a.user != nil
	needLoad := tab == TabMy && loggedIn && len(a.myEstimates) == 0
	a.mu.Unlock()
	a.changed()

	if tab == TabMy && !loggedIn {
		a.sendNotification(LevelWarning, "로그인이 필요합니다.")
		return
	}
	if needLoad {
		a.LoadMyEstimates(ctx)
	}
}

func (a *App) Screen() Screen {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.screen
}

func (a *App) ActiveTab() Tab {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.activeTab
}

func (a *App) DarkMode() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.darkMode
}

func (a *App) User() *models.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user
}

func (a *App) SessionID() string {
	return a.sessionID
}
