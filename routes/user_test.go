package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/campeloneto1/tripshare-sub000/models"
	"github.com/campeloneto1/tripshare-sub000/storage"
	"github.com/campeloneto1/tripshare-sub000/utils"

	"github.com/kataras/iris/v12"
)

func buildUserTestApp() *iris.Application {
	return buildTestApp(func(app *iris.Application, authed []iris.Handler) {
		user := app.Party("/api/user")
		{
			user.Patch("/{id:uint}", authed[0], utils.UserIDMiddleware, UpdateUser)
		}
	})
}

func TestUpdateUserSelfOnly(t *testing.T) {
	setupTestDB(t)
	app := buildUserTestApp()

	alice := createTestUser(t, true)
	bob := createTestUser(t, true)

	path := fmt.Sprintf("/api/user/%d", alice.ID)
	body := `{"bio":"chasing sunsets","isPublic":false}`

	// Another user's token on the path is rejected before the handler runs.
	if resp := doRequest(app, http.MethodPatch, path, body, bob.ID); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for mismatched token, got %d", resp.Code)
	}

	resp := doRequest(app, http.MethodPatch, path, body, alice.ID)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for own profile, got %d: %s", resp.Code, resp.Body.String())
	}

	var reloaded models.User
	if err := storage.DB.First(&reloaded, alice.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if reloaded.Bio != "chasing sunsets" || reloaded.IsPublic {
		t.Errorf("profile not updated: bio=%q isPublic=%v", reloaded.Bio, reloaded.IsPublic)
	}
}

func TestUpdateUserPushTokens(t *testing.T) {
	setupTestDB(t)
	app := buildUserTestApp()

	alice := createTestUser(t, true)

	path := fmt.Sprintf("/api/user/%d", alice.ID)
	body := `{"allowsNotifications":true,"pushTokens":["ExponentPushToken[abc]"]}`
	if resp := doRequest(app, http.MethodPatch, path, body, alice.ID); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var reloaded models.User
	storage.DB.First(&reloaded, alice.ID)
	if reloaded.AllowsNotifications == nil || !*reloaded.AllowsNotifications {
		t.Error("allowsNotifications should be set")
	}
	var tokens []string
	if err := json.Unmarshal(reloaded.PushTokens, &tokens); err != nil || len(tokens) != 1 {
		t.Errorf("push tokens not stored: %v %v", tokens, err)
	}
}
