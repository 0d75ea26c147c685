package store

import (
	"errors"
	"testing"

	"github.com/quillvc/quill/internal/content"
	"github.com/quillvc/quill/internal/domain"
	"github.com/quillvc/quill/internal/merge"
	"github.com/quillvc/quill/internal/testutil"
)

// setupStore creates a migrated store and a seeded actor.
func setupStore(t *testing.T) (*Store, string) {
	t.Helper()
	database := testutil.TempDB(t)
	actorUUID := testutil.SeedActor(t, database, "test-actor")
	return New(database), actorUUID
}

func createManuscript(t *testing.T, s *Store, actorUUID, slug, text string) *ManuscriptCreateResult {
	t.Helper()
	result, err := s.Manuscripts.Create(actorUUID, ManuscriptCreateParams{
		Slug:    slug,
		Content: content.PlainText(text),
	})
	if err != nil {
		t.Fatalf("Manuscripts.Create failed: %v", err)
	}
	return result
}

func TestManuscriptStore_Create(t *testing.T) {
	s, actorUUID := setupStore(t)

	result := createManuscript(t, s, actorUUID, "my-novel", "alpha\nbeta\ngamma")

	if result.UUID == "" || result.ID == "" {
		t.Errorf("identifiers not set: %+v", result)
	}
	if result.MainBranchUUID == "" || result.RevisionUUID == "" {
		t.Errorf("main branch or revision not created: %+v", result)
	}

	m, err := s.Manuscripts.GetBySlug("my-novel")
	if err != nil {
		t.Fatalf("GetBySlug failed: %v", err)
	}
	if m.UUID != result.UUID {
		t.Errorf("slug lookup returned %s, want %s", m.UUID, result.UUID)
	}

	branch, err := s.Branches.GetByUUID(result.MainBranchUUID)
	if err != nil {
		t.Fatalf("GetByUUID failed: %v", err)
	}
	if branch.Name != domain.MainBranchName || branch.Status != domain.BranchStatusActive {
		t.Errorf("main branch = %s/%s", branch.Name, branch.Status)
	}
	if branch.ContentFingerprint != content.Fingerprint(content.PlainText("alpha\nbeta\ngamma")) {
		t.Errorf("branch fingerprint not set from initial content")
	}

	head, err := s.Branches.HeadRevision(branch.UUID)
	if err != nil {
		t.Fatalf("HeadRevision failed: %v", err)
	}
	if head.RevisionNumber != 1 {
		t.Errorf("initial revision number %d, want 1", head.RevisionNumber)
	}
	if head.WordCount != 3 {
		t.Errorf("word count %d, want 3", head.WordCount)
	}
	meta, err := head.GetDiffFromParent()
	if err != nil || !meta.Initial {
		t.Errorf("initial revision metadata wrong: %+v (%v)", meta, err)
	}
}

func TestManuscriptStore_NotFound(t *testing.T) {
	s, _ := setupStore(t)

	_, err := s.Manuscripts.GetBySlug("nope")
	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestBranchStore_Create(t *testing.T) {
	s, actorUUID := setupStore(t)
	ms := createManuscript(t, s, actorUUID, "novel", "alpha\nbeta")

	result, err := s.Branches.Create(actorUUID, BranchCreateParams{
		ManuscriptUUID: ms.UUID,
		Name:           "draft",
	})
	if err != nil {
		t.Fatalf("Branches.Create failed: %v", err)
	}

	branch, err := s.Branches.GetByUUID(result.UUID)
	if err != nil {
		t.Fatalf("GetByUUID failed: %v", err)
	}
	if branch.ParentBranchName == nil || *branch.ParentBranchName != "main" {
		t.Errorf("parent branch name %v, want main", branch.ParentBranchName)
	}

	// The fork's first revision copies the base content and records the
	// base version for fork-point resolution.
	rev, err := s.Branches.GetRevision(result.RevisionUUID)
	if err != nil {
		t.Fatalf("GetRevision failed: %v", err)
	}
	if rev.RevisionNumber != 1 {
		t.Errorf("fork revision number %d, want 1", rev.RevisionNumber)
	}
	meta, _ := rev.GetDiffFromParent()
	if meta.BaseVersionUUID == nil || *meta.BaseVersionUUID != ms.RevisionUUID {
		t.Errorf("fork base %v, want %s", meta.BaseVersionUUID, ms.RevisionUUID)
	}

	body, err := s.Branches.RevisionContent(result.RevisionUUID)
	if err != nil {
		t.Fatalf("RevisionContent failed: %v", err)
	}
	if body.Text != "alpha\nbeta" {
		t.Errorf("fork content %q", body.Text)
	}
}

func TestBranchStore_Create_NameCollision(t *testing.T) {
	s, actorUUID := setupStore(t)
	ms := createManuscript(t, s, actorUUID, "novel", "text")

	if _, err := s.Branches.Create(actorUUID, BranchCreateParams{ManuscriptUUID: ms.UUID, Name: "draft"}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err := s.Branches.Create(actorUUID, BranchCreateParams{ManuscriptUUID: ms.UUID, Name: "draft"})
	var collision *domain.NameCollisionError
	if !errors.As(err, &collision) {
		t.Fatalf("expected NameCollisionError, got %v", err)
	}

	// The name "main" collides with the seeded trunk.
	_, err = s.Branches.Create(actorUUID, BranchCreateParams{ManuscriptUUID: ms.UUID, Name: "main"})
	if !errors.As(err, &collision) {
		t.Errorf("expected NameCollisionError for main, got %v", err)
	}
}

func TestBranchStore_Create_NameReusableAfterArchive(t *testing.T) {
	s, actorUUID := setupStore(t)
	ms := createManuscript(t, s, actorUUID, "novel", "text")

	first, err := s.Branches.Create(actorUUID, BranchCreateParams{ManuscriptUUID: ms.UUID, Name: "draft"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := s.Branches.Archive(actorUUID, first.UUID); err != nil {
		t.Fatalf("archive failed: %v", err)
	}

	if _, err := s.Branches.Create(actorUUID, BranchCreateParams{ManuscriptUUID: ms.UUID, Name: "draft"}); err != nil {
		t.Errorf("archived branch name must be reusable: %v", err)
	}
}

func TestBranchStore_Create_InvalidName(t *testing.T) {
	s, actorUUID := setupStore(t)
	ms := createManuscript(t, s, actorUUID, "novel", "text")

	_, err := s.Branches.Create(actorUUID, BranchCreateParams{ManuscriptUUID: ms.UUID, Name: "Bad Name!"})
	if err == nil {
		t.Error("expected error for invalid branch name")
	}
}

func TestBranchStore_Commit(t *testing.T) {
	s, actorUUID := setupStore(t)
	ms := createManuscript(t, s, actorUUID, "novel", "alpha\nbeta\ngamma")

	result, err := s.Branches.Commit(actorUUID, CommitParams{
		BranchUUID: ms.MainBranchUUID,
		Content:    content.PlainText("alpha\nbeta-edited\ngamma"),
		Message:    "tighten beta",
	})
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if result.RevisionNumber != 2 {
		t.Errorf("revision number %d, want 2", result.RevisionNumber)
	}
	if result.Summary != "+1, -1" {
		t.Errorf("summary %q, want %q", result.Summary, "+1, -1")
	}
	if len(result.SectionsChanged) != 1 || result.SectionsChanged[0] != "body" {
		t.Errorf("sections changed %v, want [body]", result.SectionsChanged)
	}

	head, err := s.Branches.HeadRevision(ms.MainBranchUUID)
	if err != nil {
		t.Fatalf("HeadRevision failed: %v", err)
	}
	if head.UUID != result.RevisionUUID {
		t.Errorf("head is %s, want the committed revision %s", head.UUID, result.RevisionUUID)
	}
	if head.CommitMessage == nil || *head.CommitMessage != "tighten beta" {
		t.Errorf("commit message %v", head.CommitMessage)
	}

	branch, _ := s.Branches.GetByUUID(ms.MainBranchUUID)
	if branch.ContentFingerprint != content.Fingerprint(content.PlainText("alpha\nbeta-edited\ngamma")) {
		t.Error("branch fingerprint not refreshed after commit")
	}
}

func TestBranchStore_Commit_ETag(t *testing.T) {
	s, actorUUID := setupStore(t)
	ms := createManuscript(t, s, actorUUID, "novel", "text")

	branch, err := s.Branches.GetByUUID(ms.MainBranchUUID)
	if err != nil {
		t.Fatalf("GetByUUID failed: %v", err)
	}

	// Matching etag commits fine.
	if _, err := s.Branches.Commit(actorUUID, CommitParams{
		BranchUUID:  ms.MainBranchUUID,
		Content:     content.PlainText("text v2"),
		IfMatchETag: branch.ETag,
	}); err != nil {
		t.Fatalf("commit with matching etag failed: %v", err)
	}

	// The stale etag must now be rejected.
	_, err = s.Branches.Commit(actorUUID, CommitParams{
		BranchUUID:  ms.MainBranchUUID,
		Content:     content.PlainText("text v3"),
		IfMatchETag: branch.ETag,
	})
	var mismatch *domain.ETagMismatchError
	if !errors.As(err, &mismatch) {
		t.Errorf("expected ETagMismatchError, got %v", err)
	}
}

func TestBranchStore_Merge_CleanMerge(t *testing.T) {
	s, actorUUID := setupStore(t)
	ms := createManuscript(t, s, actorUUID, "novel", "alpha\nbeta\ngamma")

	br, err := s.Branches.Create(actorUUID, BranchCreateParams{ManuscriptUUID: ms.UUID, Name: "draft"})
	if err != nil {
		t.Fatalf("branch create failed: %v", err)
	}
	if _, err := s.Branches.Commit(actorUUID, CommitParams{
		BranchUUID: br.UUID,
		Content:    content.PlainText("alpha\nbeta-edited\ngamma"),
	}); err != nil {
		t.Fatalf("branch commit failed: %v", err)
	}

	result, err := s.Branches.Merge(actorUUID, MergeParams{
		SourceBranchUUID: br.UUID,
		Strategy:         merge.StrategyManual,
	})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("clean merge not successful: %+v", result)
	}
	if len(result.Conflicts) != 0 {
		t.Errorf("unexpected conflicts: %+v", result.Conflicts)
	}

	// Target landed a merge revision carrying the source's edit.
	head, err := s.Branches.HeadRevision(ms.MainBranchUUID)
	if err != nil {
		t.Fatalf("HeadRevision failed: %v", err)
	}
	if head.UUID != result.NewRevisionUUID || head.RevisionNumber != 2 {
		t.Errorf("target head %s@%d, want merge revision at 2", head.UUID, head.RevisionNumber)
	}
	body, _ := s.Branches.RevisionContent(head.UUID)
	if body.Text != "alpha\nbeta-edited\ngamma" {
		t.Errorf("merged content %q", body.Text)
	}
	meta, _ := head.GetDiffFromParent()
	if meta.MergedFromBranch == nil || *meta.MergedFromBranch != br.UUID {
		t.Errorf("merge provenance missing: %+v", meta)
	}
	if meta.Strategy == nil || *meta.Strategy != "manual" {
		t.Errorf("strategy not recorded: %+v", meta)
	}

	// Source moved to merged and refuses further work.
	source, _ := s.Branches.GetByUUID(br.UUID)
	if source.Status != domain.BranchStatusMerged {
		t.Errorf("source status %s, want merged", source.Status)
	}
	_, err = s.Branches.Commit(actorUUID, CommitParams{
		BranchUUID: br.UUID,
		Content:    content.PlainText("more"),
	})
	var state *domain.BranchStateError
	if !errors.As(err, &state) {
		t.Errorf("expected BranchStateError on merged branch, got %v", err)
	}
}

func TestBranchStore_Merge_ManualConflictNoMutation(t *testing.T) {
	s, actorUUID := setupStore(t)
	ms := createManuscript(t, s, actorUUID, "novel", "line1\nline2")

	br, err := s.Branches.Create(actorUUID, BranchCreateParams{ManuscriptUUID: ms.UUID, Name: "draft"})
	if err != nil {
		t.Fatalf("branch create failed: %v", err)
	}

	// Divergent edits to the same line on both sides.
	if _, err := s.Branches.Commit(actorUUID, CommitParams{
		BranchUUID: ms.MainBranchUUID,
		Content:    content.PlainText("line1-main\nline2"),
	}); err != nil {
		t.Fatalf("main commit failed: %v", err)
	}
	if _, err := s.Branches.Commit(actorUUID, CommitParams{
		BranchUUID: br.UUID,
		Content:    content.PlainText("line1-draft\nline2"),
	}); err != nil {
		t.Fatalf("draft commit failed: %v", err)
	}

	headBefore, _ := s.Branches.HeadRevision(ms.MainBranchUUID)

	result, err := s.Branches.Merge(actorUUID, MergeParams{
		SourceBranchUUID: br.UUID,
		Strategy:         merge.StrategyManual,
	})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if result.Success {
		t.Fatal("manual merge with conflicts must not succeed")
	}
	if len(result.Conflicts) == 0 {
		t.Fatal("expected conflicts")
	}
	if result.NewRevisionUUID != "" {
		t.Error("no revision must land on a refused merge")
	}

	// Nothing moved: target head unchanged, source still active.
	headAfter, _ := s.Branches.HeadRevision(ms.MainBranchUUID)
	if headAfter.UUID != headBefore.UUID {
		t.Error("target head changed on a refused merge")
	}
	source, _ := s.Branches.GetByUUID(br.UUID)
	if source.Status != domain.BranchStatusActive {
		t.Errorf("source status %s, want active", source.Status)
	}

	// The best-effort payload keeps the target's text for the conflicting
	// region.
	if result.MergedContent.Text != "line1-main\nline2" {
		t.Errorf("best-effort payload %q", result.MergedContent.Text)
	}
}

func TestBranchStore_Merge_OursStrategy(t *testing.T) {
	s, actorUUID := setupStore(t)
	ms := createManuscript(t, s, actorUUID, "novel", "line1\nline2")

	br, _ := s.Branches.Create(actorUUID, BranchCreateParams{ManuscriptUUID: ms.UUID, Name: "draft"})
	s.Branches.Commit(actorUUID, CommitParams{BranchUUID: ms.MainBranchUUID, Content: content.PlainText("line1-main\nline2")})
	s.Branches.Commit(actorUUID, CommitParams{BranchUUID: br.UUID, Content: content.PlainText("line1-draft\nline2")})

	result, err := s.Branches.Merge(actorUUID, MergeParams{
		SourceBranchUUID: br.UUID,
		Strategy:         merge.StrategyOurs,
	})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if !result.Success {
		t.Fatal("ours strategy must auto-resolve")
	}
	if len(result.Conflicts) != 1 {
		t.Errorf("resolved conflicts must still be reported, got %d", len(result.Conflicts))
	}

	body, _ := s.Branches.RevisionContent(result.NewRevisionUUID)
	if body.Text != "line1-main\nline2" {
		t.Errorf("ours merge content %q, want target side", body.Text)
	}
}

func TestBranchStore_Merge_MainHasNoForkPoint(t *testing.T) {
	s, actorUUID := setupStore(t)
	ms := createManuscript(t, s, actorUUID, "novel", "text")
	s.Branches.Create(actorUUID, BranchCreateParams{ManuscriptUUID: ms.UUID, Name: "draft"})

	_, err := s.Branches.Merge(actorUUID, MergeParams{
		SourceBranchUUID: ms.MainBranchUUID,
		TargetName:       "draft",
		Strategy:         merge.StrategyManual,
	})
	if err == nil {
		t.Error("merging main (no fork point) must fail")
	}
}

func TestBranchStore_Merge_IntoItself(t *testing.T) {
	s, actorUUID := setupStore(t)
	ms := createManuscript(t, s, actorUUID, "novel", "text")
	br, _ := s.Branches.Create(actorUUID, BranchCreateParams{ManuscriptUUID: ms.UUID, Name: "draft"})

	_, err := s.Branches.Merge(actorUUID, MergeParams{
		SourceBranchUUID: br.UUID,
		TargetName:       "draft",
		Strategy:         merge.StrategyManual,
	})
	if err == nil {
		t.Error("merging a branch into itself must fail")
	}
}

func TestBranchStore_Archive(t *testing.T) {
	s, actorUUID := setupStore(t)
	ms := createManuscript(t, s, actorUUID, "novel", "text")
	br, _ := s.Branches.Create(actorUUID, BranchCreateParams{ManuscriptUUID: ms.UUID, Name: "draft"})

	if err := s.Branches.Archive(actorUUID, br.UUID); err != nil {
		t.Fatalf("Archive failed: %v", err)
	}

	branch, _ := s.Branches.GetByUUID(br.UUID)
	if branch.Status != domain.BranchStatusAbandoned {
		t.Errorf("status %s, want abandoned", branch.Status)
	}

	// Revisions stay readable.
	if _, err := s.Branches.HeadRevision(br.UUID); err != nil {
		t.Errorf("archived branch revisions must stay readable: %v", err)
	}

	// List hides abandoned branches by default.
	branches, _ := s.Branches.List(ms.UUID, false)
	if len(branches) != 1 || branches[0].Name != "main" {
		t.Errorf("default list = %d branches", len(branches))
	}
	branches, _ = s.Branches.List(ms.UUID, true)
	if len(branches) != 2 {
		t.Errorf("full list = %d branches, want 2", len(branches))
	}

	// Archiving twice is a state error; archiving main always refuses.
	err := s.Branches.Archive(actorUUID, br.UUID)
	var state *domain.BranchStateError
	if !errors.As(err, &state) {
		t.Errorf("expected BranchStateError, got %v", err)
	}
	if err := s.Branches.Archive(actorUUID, ms.MainBranchUUID); err == nil {
		t.Error("archiving main must fail")
	}
}

func TestBranchStore_Revert(t *testing.T) {
	s, actorUUID := setupStore(t)
	ms := createManuscript(t, s, actorUUID, "novel", "version one")
	s.Branches.Commit(actorUUID, CommitParams{BranchUUID: ms.MainBranchUUID, Content: content.PlainText("version two")})

	result, err := s.Branches.Revert(actorUUID, ms.UUID, ms.RevisionUUID)
	if err != nil {
		t.Fatalf("Revert failed: %v", err)
	}
	if result.BranchName != "main" || result.RevisionNumber != 3 {
		t.Errorf("revert landed at %s@%d, want main@3", result.BranchName, result.RevisionNumber)
	}

	body, _ := s.Branches.RevisionContent(result.RevisionUUID)
	if body.Text != "version one" {
		t.Errorf("reverted content %q", body.Text)
	}

	rev, _ := s.Branches.GetRevision(result.RevisionUUID)
	meta, _ := rev.GetDiffFromParent()
	if meta.RevertedTo == nil || *meta.RevertedTo != ms.RevisionUUID {
		t.Errorf("revert provenance missing: %+v", meta)
	}
}

func TestBranchStore_Revert_InactiveBranchFallsBackToMain(t *testing.T) {
	s, actorUUID := setupStore(t)
	ms := createManuscript(t, s, actorUUID, "novel", "base text")

	br, _ := s.Branches.Create(actorUUID, BranchCreateParams{ManuscriptUUID: ms.UUID, Name: "draft"})
	commit, _ := s.Branches.Commit(actorUUID, CommitParams{BranchUUID: br.UUID, Content: content.PlainText("draft text")})
	if _, err := s.Branches.Merge(actorUUID, MergeParams{SourceBranchUUID: br.UUID, Strategy: merge.StrategyManual}); err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	// The revision's own branch is merged now, so the revert lands on main.
	result, err := s.Branches.Revert(actorUUID, ms.UUID, commit.RevisionUUID)
	if err != nil {
		t.Fatalf("Revert failed: %v", err)
	}
	if result.BranchName != "main" {
		t.Errorf("revert landed on %s, want main", result.BranchName)
	}
}

func TestBranchStore_ListRevisions(t *testing.T) {
	s, actorUUID := setupStore(t)
	ms := createManuscript(t, s, actorUUID, "novel", "v1")
	s.Branches.Commit(actorUUID, CommitParams{BranchUUID: ms.MainBranchUUID, Content: content.PlainText("v2")})
	s.Branches.Commit(actorUUID, CommitParams{BranchUUID: ms.MainBranchUUID, Content: content.PlainText("v3")})

	revisions, err := s.Branches.ListRevisions(ms.MainBranchUUID)
	if err != nil {
		t.Fatalf("ListRevisions failed: %v", err)
	}
	if len(revisions) != 3 {
		t.Fatalf("got %d revisions, want 3", len(revisions))
	}
	for i, rev := range revisions {
		if rev.RevisionNumber != i+1 {
			t.Errorf("revision %d has number %d", i, rev.RevisionNumber)
		}
	}
}

func TestBranchStore_DiffVersions(t *testing.T) {
	s, actorUUID := setupStore(t)
	ms := createManuscript(t, s, actorUUID, "novel", "one\ntwo\nthree")
	commit, _ := s.Branches.Commit(actorUUID, CommitParams{
		BranchUUID: ms.MainBranchUUID,
		Content:    content.PlainText("one\n2\nthree"),
	})

	result, err := s.Branches.DiffVersions(ms.RevisionUUID, commit.RevisionUUID)
	if err != nil {
		t.Fatalf("DiffVersions failed: %v", err)
	}
	if result.Summary != "+1, -1" {
		t.Errorf("summary %q, want %q", result.Summary, "+1, -1")
	}
	if result.UnchangedLines != 2 {
		t.Errorf("unchanged %d, want 2", result.UnchangedLines)
	}
}

func TestBranchStore_History(t *testing.T) {
	s, actorUUID := setupStore(t)
	ms := createManuscript(t, s, actorUUID, "novel", "base")
	s.Branches.Commit(actorUUID, CommitParams{BranchUUID: ms.MainBranchUUID, Content: content.PlainText("base v2")})
	br, _ := s.Branches.Create(actorUUID, BranchCreateParams{ManuscriptUUID: ms.UUID, Name: "draft"})
	s.Branches.Commit(actorUUID, CommitParams{BranchUUID: br.UUID, Content: content.PlainText("draft v2")})

	forest, err := s.Branches.History(ms.UUID, "")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(forest) != 1 {
		t.Fatalf("expected a single root, got %d", len(forest))
	}
	root := forest[0]
	if root.BranchName != "main" || root.RevisionNumber != 1 {
		t.Errorf("root = %s@%d, want main@1", root.BranchName, root.RevisionNumber)
	}

	// main@2 hangs off main@1; the fork hangs off main@2 (its base).
	if len(root.Children) != 1 {
		t.Fatalf("main@1 children = %d, want 1", len(root.Children))
	}
	mainHead := root.Children[0]
	if len(mainHead.Children) != 1 || mainHead.Children[0].BranchName != "draft" {
		t.Errorf("fork not linked under its base")
	}

	// Branch filter narrows the walk; the fork becomes a root.
	forest, err = s.Branches.History(ms.UUID, "draft")
	if err != nil {
		t.Fatalf("filtered History failed: %v", err)
	}
	if len(forest) != 1 || forest[0].BranchName != "draft" {
		t.Errorf("filtered forest wrong: %+v", forest)
	}
}

func TestStore_EventLog(t *testing.T) {
	s, actorUUID := setupStore(t)
	ms := createManuscript(t, s, actorUUID, "novel", "text")
	br, _ := s.Branches.Create(actorUUID, BranchCreateParams{ManuscriptUUID: ms.UUID, Name: "draft"})
	s.Branches.Commit(actorUUID, CommitParams{BranchUUID: br.UUID, Content: content.PlainText("text v2")})
	s.Branches.Merge(actorUUID, MergeParams{SourceBranchUUID: br.UUID, Strategy: merge.StrategyManual})

	counts := map[string]int{}
	rows, err := s.DB().Query("SELECT event_type, COUNT(*) FROM event_log GROUP BY event_type")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	defer rows.Close()
	for rows.Next() {
		var eventType string
		var n int
		if err := rows.Scan(&eventType, &n); err != nil {
			t.Fatalf("scan failed: %v", err)
		}
		counts[eventType] = n
	}

	if counts["manuscript.created"] != 1 {
		t.Errorf("manuscript.created = %d", counts["manuscript.created"])
	}
	if counts["branch.created"] != 2 {
		t.Errorf("branch.created = %d, want 2 (main + draft)", counts["branch.created"])
	}
	if counts["branch.merged"] != 1 {
		t.Errorf("branch.merged = %d", counts["branch.merged"])
	}
	// rev 1 of main, rev 1 of draft, the draft commit, the merge revision.
	if counts["revision.created"] != 4 {
		t.Errorf("revision.created = %d, want 4", counts["revision.created"])
	}
}
