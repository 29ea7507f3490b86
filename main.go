package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"pcbuilder/internal/app"
	"pcbuilder/internal/cache"
	"pcbuilder/internal/config"
	"pcbuilder/internal/gateway"
	"pcbuilder/internal/logger"
	"pcbuilder/internal/models"
	"pcbuilder/internal/stub"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg := config.Load()
	logger.Initialize(logger.ParseLevel(cfg.LogLevel))

	if cfg.DemoMode {
		srv := stub.New(cfg.APIKey)
		go func() {
			logger.Info("demo backend listening", "addr", cfg.DemoAddr)
			if err := http.ListenAndServe(cfg.DemoAddr, srv.Router()); err != nil {
				log.Fatal("Failed to start demo backend:", err)
			}
		}()
		cfg.BaseURL = "http://" + cfg.DemoAddr
		time.Sleep(100 * time.Millisecond)
	}

	store, err := cache.Open(cfg.CachePath)
	if err != nil {
		log.Fatal("Failed to open local cache:", err)
	}
	defer store.Close()

	client := gateway.New(cfg)
	a := app.New(client, store)

	a.OnNotify(func(n app.Notification) {
		fmt.Printf("[%s] %s\n", strings.ToUpper(string(n.Level)), n.Message)
	})

	ctx := context.Background()
	a.Bootstrap(ctx)
	if user := a.User(); user != nil {
		fmt.Printf("%s님으로 로그인되어 있습니다.\n", user.Name)
	}

	fmt.Println("PC 견적 도우미입니다. 원하는 PC 사양을 입력하거나 /help 를 입력하세요.")
	runREPL(ctx, a)
}

func runREPL(ctx context.Context, a *app.App) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "/") {
			a.Send(ctx, line)
			printLastReply(a)
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "/help":
			printHelp()
		case "/search":
			a.Search(ctx, strings.TrimSpace(strings.TrimPrefix(line, "/search")))
			printLastReply(a)
		case "/login":
			if len(fields) != 3 {
				fmt.Println("사용법: /login <아이디> <비밀번호>")
				continue
			}
			a.Login(ctx, fields[1], fields[2])
		case "/register":
			if len(fields) != 4 {
				fmt.Println("사용법: /register <이름> <아이디> <비밀번호>")
				continue
			}
			a.Register(ctx, fields[1], fields[2], fields[3])
		case "/logout":
			a.Logout(ctx)
		case "/save":
			a.SaveLastEstimate(ctx)
		case "/saved":
			a.LoadSaved(ctx)
			printEstimates(a.SavedEstimates())
		case "/gallery":
			a.OpenGallery(ctx)
			printEstimates(a.GalleryEstimates())
		case "/mine":
			a.SetActiveTab(ctx, app.TabMy)
			printEstimates(a.MyEstimates())
		case "/compare":
			if len(fields) != 2 {
				printEstimates(a.Comparison())
				continue
			}
			if rec, ok := findEstimate(a.GalleryEstimates(), fields[1]); ok {
				a.ToggleComparison(rec)
			} else {
				fmt.Println("해당 견적을 찾을 수 없습니다.")
			}
		case "/copy":
			if len(fields) != 2 {
				fmt.Println("사용법: /copy <견적번호>")
				continue
			}
			if rec, ok := findEstimate(a.GalleryEstimates(), fields[1]); ok {
				a.CopyToMine(ctx, rec)
			} else {
				fmt.Println("해당 견적을 찾을 수 없습니다.")
			}
		case "/delete":
			if len(fields) != 2 {
				fmt.Println("사용법: /delete <견적번호>")
				continue
			}
			a.DeleteEstimate(ctx, fields[1])
		case "/dark":
			a.SetDarkMode(!a.DarkMode())
			fmt.Printf("다크 모드: %v\n", a.DarkMode())
		case "/quit", "/exit":
			return
		default:
			fmt.Println("알 수 없는 명령입니다. /help 를 참고하세요.")
		}
	}
}

func printHelp() {
	fmt.Println(`명령어:
  <텍스트>                 AI 상담사에게 메시지 보내기
  /search <요구사항>       요구사항으로 견적 요청
  /login <아이디> <비밀번호>
  /register <이름> <아이디> <비밀번호>
  /logout
  /save                    마지막 견적 저장
  /saved                   저장된 견적 목록
  /gallery                 전체 견적 갤러리
  /mine                    내 견적 목록
  /compare [견적번호]      비교함에 추가/제거 (최대 3개)
  /copy <견적번호>         갤러리 견적을 내 목록에 저장
  /delete <견적번호>       저장된 견적 삭제
  /dark                    다크 모드 전환
  /quit`)
}

func printLastReply(a *app.App) {
	transcript := a.Transcript()
	if len(transcript) == 0 {
		return
	}
	last := transcript[len(transcript)-1]
	fmt.Println(last.Content)

	if est := a.LastEstimate(); est != nil {
		fmt.Println("--- 추천 견적 ---")
		for _, category := range models.Categories {
			if part, ok := est.Parts[category]; ok {
				fmt.Printf("  %-7s %s (%.0f원)\n", category, part.Name, part.Price)
			}
		}
		fmt.Printf("  총액: %.0f원\n", est.TotalPrice)
	}
}

func printEstimates(list []models.SavedEstimate) {
	if len(list) == 0 {
		fmt.Println("표시할 견적이 없습니다.")
		return
	}
	for _, rec := range list {
		fmt.Printf("  [%s] %s (%.0f원)", rec.ID, rec.Title, rec.TotalPrice)
		if rec.Username != "" {
			fmt.Printf(" by %s", rec.Username)
		}
		fmt.Println()
	}
}

func findEstimate(list []models.SavedEstimate, id string) (models.SavedEstimate, bool) {
	for _, rec := range list {
		if rec.ID == id {
			return rec, true
		}
	}
	return models.SavedEstimate{}, false
}
