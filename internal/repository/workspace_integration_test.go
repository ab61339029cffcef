//go:build integration

package repository

import (
	"errors"
	"testing"

	"github.com/workhub/workhub/internal/model"
	"github.com/workhub/workhub/internal/testutil"
)

// ============================================================================
// Workspace Repository Integration Tests
// ============================================================================

func TestIntegrationWorkspaceRepository_CreateWithOwnerGrant(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	owner := testutil.NewTestUser(t, testutil.UniqueUsername("owner"))
	if err := repo.CreateUser(ctx, owner); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	ws := testutil.NewTestWorkspace(t, owner.ID)
	grant := testutil.NewTestGrant(t, owner.ID, ws.ID, model.RoleOwner)

	if err := repo.CreateWorkspace(ctx, ws, grant); err != nil {
		t.Fatalf("CreateWorkspace failed: %v", err)
	}

	retrieved, err := repo.GetWorkspaceByID(ctx, ws.ID)
	if err != nil {
		t.Fatalf("GetWorkspaceByID failed: %v", err)
	}
	if retrieved.Name != ws.Name {
		t.Errorf("Name mismatch: got %q, want %q", retrieved.Name, ws.Name)
	}
	if retrieved.OwnerID != owner.ID {
		t.Errorf("OwnerID mismatch: got %q, want %q", retrieved.OwnerID, owner.ID)
	}

	// Exactly one grant, for the owner, with the owner role.
	grants, err := repo.ListGrantsByWorkspace(ctx, ws.ID)
	if err != nil {
		t.Fatalf("ListGrantsByWorkspace failed: %v", err)
	}
	if len(grants) != 1 {
		t.Fatalf("expected exactly 1 grant, got %d", len(grants))
	}
	if grants[0].UserID != owner.ID || grants[0].Role != model.RoleOwner {
		t.Errorf("unexpected grant: user=%q role=%q", grants[0].UserID, grants[0].Role)
	}
}

func TestIntegrationWorkspaceRepository_CreateRollsBackOnGrantFailure(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	owner := testutil.NewTestUser(t, testutil.UniqueUsername("rollback"))
	if err := repo.CreateUser(ctx, owner); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	ws := testutil.NewTestWorkspace(t, owner.ID)
	grant := testutil.NewTestGrant(t, owner.ID, ws.ID, model.RoleOwner)
	grant.Role = "bogus" // violates the role CHECK constraint

	if err := repo.CreateWorkspace(ctx, ws, grant); err == nil {
		t.Fatal("expected error for invalid grant role")
	}

	// The workspace row must not survive the failed transaction.
	if _, err := repo.GetWorkspaceByID(ctx, ws.ID); !errors.Is(err, ErrWorkspaceNotFound) {
		t.Errorf("Expected ErrWorkspaceNotFound, got: %v", err)
	}
}

func TestIntegrationWorkspaceRepository_ListForUser(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	alice := testutil.NewTestUser(t, testutil.UniqueUsername("alice"))
	bob := testutil.NewTestUser(t, testutil.UniqueUsername("bob"))
	for _, u := range []*model.User{alice, bob} {
		if err := repo.CreateUser(ctx, u); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
	}

	// Alice owns two workspaces, Bob owns one.
	var aliceWS []*model.Workspace
	for i := 0; i < 2; i++ {
		ws := testutil.NewTestWorkspace(t, alice.ID)
		grant := testutil.NewTestGrant(t, alice.ID, ws.ID, model.RoleOwner)
		if err := repo.CreateWorkspace(ctx, ws, grant); err != nil {
			t.Fatalf("CreateWorkspace failed: %v", err)
		}
		aliceWS = append(aliceWS, ws)
	}

	bobWS := testutil.NewTestWorkspace(t, bob.ID)
	if err := repo.CreateWorkspace(ctx, bobWS, testutil.NewTestGrant(t, bob.ID, bobWS.ID, model.RoleOwner)); err != nil {
		t.Fatalf("CreateWorkspace failed: %v", err)
	}

	listed, err := repo.ListWorkspacesForUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListWorkspacesForUser failed: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 workspaces, got %d", len(listed))
	}
	for _, ws := range listed {
		if ws.ID == bobWS.ID {
			t.Error("listing leaked a workspace the user has no grant on")
		}
	}

	// Grant Bob membership on one of Alice's workspaces; it must now appear.
	if err := repo.CreateGrant(ctx, testutil.NewTestGrant(t, bob.ID, aliceWS[0].ID, model.RoleMember)); err != nil {
		t.Fatalf("CreateGrant failed: %v", err)
	}

	listed, err = repo.ListWorkspacesForUser(ctx, bob.ID)
	if err != nil {
		t.Fatalf("ListWorkspacesForUser failed: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 workspaces for bob, got %d", len(listed))
	}
}

func TestIntegrationWorkspaceRepository_Update(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	owner := testutil.NewTestUser(t, testutil.UniqueUsername("upd"))
	if err := repo.CreateUser(ctx, owner); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	ws := testutil.NewTestWorkspace(t, owner.ID)
	if err := repo.CreateWorkspace(ctx, ws, testutil.NewTestGrant(t, owner.ID, ws.ID, model.RoleOwner)); err != nil {
		t.Fatalf("CreateWorkspace failed: %v", err)
	}

	name := "Renamed"
	updated, err := repo.UpdateWorkspace(ctx, ws.ID, WorkspacePatch{Name: &name})
	if err != nil {
		t.Fatalf("UpdateWorkspace failed: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Errorf("Name mismatch: got %q, want %q", updated.Name, "Renamed")
	}
	if updated.Description != ws.Description {
		t.Error("untouched field should be unchanged")
	}
	if updated.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be set")
	}
}

func TestIntegrationWorkspaceRepository_Update_NotFound(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	name := "ghost"
	_, err := repo.UpdateWorkspace(ctx, "nonexistent-id", WorkspacePatch{Name: &name})
	if !errors.Is(err, ErrWorkspaceNotFound) {
		t.Errorf("Expected ErrWorkspaceNotFound, got: %v", err)
	}
}

func TestIntegrationWorkspaceRepository_DeleteCascadesGrants(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	owner := testutil.NewTestUser(t, testutil.UniqueUsername("del"))
	member := testutil.NewTestUser(t, testutil.UniqueUsername("delmem"))
	for _, u := range []*model.User{owner, member} {
		if err := repo.CreateUser(ctx, u); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
	}

	ws := testutil.NewTestWorkspace(t, owner.ID)
	if err := repo.CreateWorkspace(ctx, ws, testutil.NewTestGrant(t, owner.ID, ws.ID, model.RoleOwner)); err != nil {
		t.Fatalf("CreateWorkspace failed: %v", err)
	}
	if err := repo.CreateGrant(ctx, testutil.NewTestGrant(t, member.ID, ws.ID, model.RoleMember)); err != nil {
		t.Fatalf("CreateGrant failed: %v", err)
	}

	if err := repo.DeleteWorkspace(ctx, ws.ID); err != nil {
		t.Fatalf("DeleteWorkspace failed: %v", err)
	}

	if _, err := repo.GetWorkspaceByID(ctx, ws.ID); !errors.Is(err, ErrWorkspaceNotFound) {
		t.Errorf("Expected ErrWorkspaceNotFound, got: %v", err)
	}
	for _, userID := range []string{owner.ID, member.ID} {
		if _, err := repo.GetGrant(ctx, userID, ws.ID); !errors.Is(err, ErrGrantNotFound) {
			t.Errorf("grant for %q should be gone, got: %v", userID, err)
		}
	}
}

func TestIntegrationWorkspaceRepository_Delete_NotFound(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	if err := repo.DeleteWorkspace(ctx, "nonexistent-id"); !errors.Is(err, ErrWorkspaceNotFound) {
		t.Errorf("Expected ErrWorkspaceNotFound, got: %v", err)
	}
}
