package app

import (
	"context"

	"pcbuilder/internal/logger"
	"pcbuilder/internal/models"
)

const comparisonLimitNotice = "최대 3개까지만 비교가 가능합니다."

// SaveLastEstimate persists the current last-estimate slot under the chat
// session. The slot is kept after a save so the same estimate can be
// saved again.
func (a *App) SaveLastEstimate(ctx context.Context) bool {
	a.mu.Lock()
	est := a.lastEstimate
	a.mu.Unlock()

	if est == nil {
		a.sendNotification(LevelWarning, "저장할 수 있는 최신 견적이 없습니다.")
		return false
	}

	res := a.gw.SaveEstimate(ctx, est, a.sessionID)
	if res.Success && res.BusinessOK() {
		a.sendNotification(LevelSuccess, "견적이 저장되었습니다.")
		return true
	}
	msg := res.DataMessage()
	if msg == "" {
		msg = "견적 저장에 실패했습니다."
	}
	a.sendNotification(LevelError, msg)
	return false
}

// LoadSaved refreshes the logged-in user's saved-estimate list for the
// history view.
func (a *App) LoadSaved(ctx context.Context) {
	a.mu.Lock()
	loggedIn := a.user != nil
	a.mu.Unlock()
	if !loggedIn {
		a.sendNotification(LevelWarning, "로그인이 필요합니다.")
		return
	}

	res := a.gw.GetEstimateList(ctx)
	if !res.Success || !res.BusinessOK() {
		a.sendNotification(LevelError, "견적 목록을 불러오지 못했습니다.")
		return
	}

	list := models.DecodeSavedEstimates(res.EstimateRows())
	a.mu.Lock()
	a.savedEstimates = list
	a.mu.Unlock()
	a.changed()

	if len(list) == 0 {
		a.sendNotification(LevelInfo, "저장된 견적이 없습니다.")
	}
}

// LoadGallery refreshes the shared gallery list. It is available without
// login.
func (a *App) LoadGallery(ctx context.Context) {
	res := a.gw.GetAllEstimates(ctx)
	if !res.Success || !res.BusinessOK() {
		a.sendNotification(LevelError, "견적 목록을 불러오지 못했습니다.")
		return
	}

	list := models.DecodeSavedEstimates(res.EstimateRows())
	a.mu.Lock()
	a.galleryEstimates = list
	a.mu.Unlock()
	a.changed()
}

// LoadMyEstimates refreshes the logged-in user's own list used by the
// gallery "mine" tab and the copy duplicate check.
func (a *App) LoadMyEstimates(ctx context.Context) {
	a.mu.Lock()
	loggedIn := a.user != nil
	a.mu.Unlock()
	if !loggedIn {
		return
	}

	res := a.gw.GetEstimateList(ctx)
	if !res.Success || !res.BusinessOK() {
		a.sendNotification(LevelError, "내 견적 목록을 불러오지 못했습니다.")
		return
	}

	list := models.DecodeSavedEstimates(res.EstimateRows())
	a.mu.Lock()
	a.myEstimates = list
	a.mu.Unlock()
	a.changed()
}

// DeleteEstimate removes a saved estimate and drops it from the local
// list on success.
func (a *App) DeleteEstimate(ctx context.Context, id string) bool {
	res := a.gw.DeleteEstimate(ctx, id)
	if !res.Success || !res.BusinessOK() {
		logger.Warn("estimate delete failed", "id", id, "status", res.Status)
		a.sendNotification(LevelError, "삭제에 실패했습니다.")
		return false
	}

	a.mu.Lock()
	kept := a.savedEstimates[:0]
	for _, rec := range a.savedEstimates {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	a.savedEstimates = kept
	a.mu.Unlock()

	a.sendNotification(LevelSuccess, "견적이 삭제되었습니다.")
	a.changed()
	return true
}

// ToggleComparison adds or removes a gallery record from the comparison
// set, capped at three entries.
func (a *App) ToggleComparison(rec models.SavedEstimate) {
	a.mu.Lock()
	for i, cur := range a.comparison {
		if cur.ID == rec.ID {
			a.comparison = append(a.comparison[:i], a.comparison[i+1:]...)
			a.mu.Unlock()
			a.changed()
			return
		}
	}
	if len(a.comparison) >= 3 {
		a.mu.Unlock()
		a.sendNotification(LevelWarning, comparisonLimitNotice)
		return
	}
	a.comparison = append(a.comparison, rec)
	a.mu.Unlock()
	a.changed()
}

// CanCopyToMine reports whether a gallery record may be copied into the
// user's own list. A record whose parts match one already owned, by part
// name across every category, is not copyable again.
func (a *App) CanCopyToMine(rec models.SavedEstimate) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.user == nil || rec.Estimate == nil {
		return false
	}
	for _, mine := range a.myEstimates {
		if models.SameParts(rec.Estimate, mine.Estimate) {
			return false
		}
	}
	return true
}

// CopyToMine saves a gallery record under the user's own list and
// refreshes it.
func (a *App) CopyToMine(ctx context.Context, rec models.SavedEstimate) bool {
	if !a.CanCopyToMine(rec) {
		return false
	}

	res := a.gw.SaveEstimate(ctx, rec.Estimate, a.sessionID)
	if res.Err != "" {
		a.sendNotification(LevelError, "견적 저장 중 오류가 발생했습니다.")
		return false
	}
	if !res.Success || !res.BusinessOK() {
		a.sendNotification(LevelError, "견적 저장에 실패했습니다.")
		return false
	}

	a.sendNotification(LevelSuccess, "견적이 저장되었습니다.")
	a.LoadMyEstimates(ctx)
	return true
}

func (a *App) SavedEstimates() []models.SavedEstimate {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.SavedEstimate, len(a.savedEstimates))
	copy(out, a.savedEstimates)
	return out
}

func (a *App) GalleryEstimates() []models.SavedEstimate {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.SavedEstimate, len(a.galleryEstimates))
	copy(out, a.galleryEstimates)
	return out
}

func (a *App) MyEstimates() []models.SavedEstimate {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.SavedEstimate, len(a.myEstimates))
	copy(out, a.myEstimates)
	return out
}

func (a *App) Comparison() []models.SavedEstimate {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.SavedEstimate, len(a.comparison))
	copy(out, a.comparison)
	return out
}
