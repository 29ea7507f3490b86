// Package stub is a stand-in for the storefront backend. It speaks the
// same endpoints and response envelopes as the real service, including
// the older deployments whose chat route only exists under /api/ai/chat.
// It backs the demo mode of the CLI and the gateway tests.
package stub

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pcbuilder/internal/logger"
	"pcbuilder/internal/models"
)

type account struct {
	name     string
	password string
}

type record struct {
	id        int
	username  string
	sessionID string
	title     string
	total     float64
	estimate  map[string]interface{}
}

// Server holds the in-memory stores behind the stub endpoints.
type Server struct {
	apiKey string

	// LegacyChatOnly makes /api/chat answer 404 so clients fall back
	// to /api/ai/chat, mimicking older deployments.
	LegacyChatOnly bool

	mu       sync.Mutex
	accounts map[string]account
	sessions map[string]string
	records  []record
	nextID   int
}

func New(apiKey string) *Server {
	return &Server{
		apiKey:   apiKey,
		accounts: map[string]account{"demo": {name: "데모", password: "demo1234"}},
		sessions: make(map[string]string),
		nextID:   1,
	}
}

// Router builds the gin engine with every stub route registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requireAPIKey)

	r.POST("/api/login", s.handleLogin)
	r.POST("/api/register", s.handleRegister)
	r.GET("/api/auth/check", s.handleAuthCheck)
	r.POST("/api/logout", s.handleLogout)
	r.POST("/api/chat", s.handleChat)
	r.POST("/api/ai/chat", s.handleLegacyChat)
	r.GET("/api/estimate", s.handleEstimateList)
	r.GET("/api/estimate/all", s.handleEstimateAll)
	r.POST("/api/estimate", s.handleEstimateSave)
	r.DELETE("/api/estimate/:id", s.handleEstimateDelete)

	return r
}

func (s *Server) requireAPIKey(c *gin.Context) {
	auth := c.GetHeader("Authorization")
	if auth != "Bearer "+s.apiKey {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "invalid api key",
		})
		return
	}
	c.Next()
}

func (s *Server) currentUser(c *gin.Context) (string, bool) {
	sid, err := c.Cookie("stub_session")
	if err != nil {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	username, ok := s.sessions[sid]
	return username, ok
}

func (s *Server) handleLogin(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "잘못된 요청입니다."})
		return
	}

	s.mu.Lock()
	acct, ok := s.accounts[req.Username]
	s.mu.Unlock()
	if !ok || acct.password != req.Password {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "아이디 또는 비밀번호가 올바르지 않습니다."})
		return
	}

	sid := uuid.NewString()
	s.mu.Lock()
	s.sessions[sid] = req.Username
	s.mu.Unlock()
	c.SetCookie("stub_session", sid, 3600, "/", "", false, true)

	logger.Info("stub login", "username", req.Username, "session", sid)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    gin.H{"username": req.Username, "name": acct.name},
	})
}

func (s *Server) handleRegister(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "잘못된 요청입니다."})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[req.Username]; exists {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "이미 사용 중인 아이디입니다."})
		return
	}
	s.accounts[req.Username] = account{name: req.Name, password: req.Password}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "회원가입이 완료되었습니다."})
}

func (s *Server) handleAuthCheck(c *gin.Context) {
	username, ok := s.currentUser(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"loggedIn": false})
		return
	}
	s.mu.Lock()
	acct := s.accounts[username]
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{
		"loggedIn": true,
		"user":     gin.H{"username": username, "name": acct.name},
	})
}

func (s *Server) handleLogout(c *gin.Context) {
	if sid, err := c.Cookie("stub_session"); err == nil {
		s.mu.Lock()
		delete(s.sessions, sid)
		s.mu.Unlock()
	}
	c.SetCookie("stub_session", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleChat(c *gin.Context) {
	if s.LegacyChatOnly {
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
		return
	}
	s.answerChat(c, false)
}

func (s *Server) handleLegacyChat(c *gin.Context) {
	s.answerChat(c, true)
}

// answerChat replies with a structured estimate when the request reads
// like a build question, otherwise a short text answer. Legacy wraps the
// reply in the chat-completions shape.
func (s *Server) answerChat(c *gin.Context, legacy bool) {
	var req struct {
		SessionID string `json:"session_id"`
		Messages  []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		Query string `json:"query"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "잘못된 요청입니다."})
		return
	}

	text := req.Query
	if text == "" && len(req.Messages) > 0 {
		text = req.Messages[len(req.Messages)-1].Content
	}

	reply := replyFor(text)
	if legacy {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"choices": []gin.H{{"message": gin.H{"role": "assistant", "content": reply}}},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "response": reply})
}

func replyFor(text string) string {
	if strings.Contains(text, "견적") || strings.Contains(text, "추천") || strings.Contains(text, "PC") {
		est := models.Estimate{
			Parts: map[string]models.Part{
				"cpu":    {Name: "Ryzen 5 7600", Price: 229000},
				"gpu":    {Name: "RTX 4060 Ti", Price: 549000},
				"mboard": {Name: "B650M", Price: 159000},
				"ram":    {Name: "DDR5 32GB", Price: 125000},
				"ssd":    {Name: "NVMe 1TB", Price: 109000},
				"cooler": {Name: "타워형 공랭", Price: 45000},
				"power":  {Name: "650W Gold", Price: 89000},
				"case":   {Name: "미들타워", Price: 65000},
			},
			TotalPrice: 1370000,
		}
		raw, _ := est.MarshalJSON()
		return string(raw)
	}
	return fmt.Sprintf("무엇을 도와드릴까요? (%s)", text)
}

func (s *Server) handleEstimateSave(c *gin.Context) {
	username, _ := s.currentUser(c)

	var req struct {
		SessionID  string                 `json:"session_id"`
		Title      string                 `json:"title"`
		TotalPrice float64                `json:"totalPrice"`
		Estimate   map[string]interface{} `json:"estimate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "잘못된 요청입니다."})
		return
	}
	if req.Estimate == nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "견적 저장에 실패했습니다."})
		return
	}

	s.mu.Lock()
	rec := record{
		id:        s.nextID,
		username:  username,
		sessionID: req.SessionID,
		title:     req.Title,
		total:     req.TotalPrice,
		estimate:  req.Estimate,
	}
	s.nextID++
	s.records = append(s.records, rec)
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"success": true, "id": rec.id})
}

// handleEstimateList returns the caller's records under the "estimates"
// key, the shape the newer backend uses.
func (s *Server) handleEstimateList(c *gin.Context) {
	username, ok := s.currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "로그인이 필요합니다."})
		return
	}

	s.mu.Lock()
	rows := make([]gin.H, 0)
	for _, rec := range s.records {
		if rec.username == username {
			rows = append(rows, rowJSON(rec, true))
		}
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"success": true, "estimates": rows})
}

// handleEstimateAll returns every record under the "data" key, the shape
// the older gallery endpoint uses.
func (s *Server) handleEstimateAll(c *gin.Context) {
	s.mu.Lock()
	rows := make([]gin.H, 0, len(s.records))
	for _, rec := range s.records {
		rows = append(rows, rowJSON(rec, false))
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"success": true, "data": rows})
}

func (s *Server) handleEstimateDelete(c *gin.Context) {
	username, ok := s.currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "로그인이 필요합니다."})
		return
	}

	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.records {
		if fmt.Sprint(rec.id) == id && rec.username == username {
			s.records = append(s.records[:i], s.records[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"success": true})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "견적을 찾을 수 없습니다."})
}

// rowJSON renders one record. The user-scoped list serializes the data
// payload as a string and the gallery keeps it an object, matching the
// two row shapes the real backend produces.
func rowJSON(rec record, dataAsString bool) gin.H {
	payload := gin.H{
		"session_id": rec.sessionID,
		"totalPrice": rec.total,
		"estimate":   rec.estimate,
	}
	row := gin.H{
		"id":         rec.id,
		"username":   rec.username,
		"title":      rec.title,
		"totalPrice": rec.total,
	}
	if dataAsString {
		raw, _ := json.Marshal(payload)
		row["data"] = string(raw)
	} else {
		row["data"] = payload
	}
	return row
}
