package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"video-archive-bot/constant"
	"video-archive-bot/conversation"
	"video-archive-bot/dto"
	"video-archive-bot/entities"
	"video-archive-bot/repository"
	"video-archive-bot/service"
)

const (
	operatorID  int64 = 1001
	requesterID int64 = 2002
	chatID      int64 = 555
)

var archive = dto.ChatRef{ID: -1009876543210}

type sentText struct {
	chatID  int64
	text    string
	buttons []string
}

type fakeMessenger struct {
	texts         []sentText
	forwarded     []int
	copied        []int
	deleted       []int
	nextChannelID int
	forwardErr    error
	sendErr       error
	copyFail      map[int]bool
	deleteFail    map[int]bool
}

func (f *fakeMessenger) SendText(ctx context.Context, chatID int64, text string, buttons ...string) error {
	f.texts = append(f.texts, sentText{chatID: chatID, text: text, buttons: buttons})
	return f.sendErr
}

func (f *fakeMessenger) ForwardMessage(ctx context.Context, to dto.ChatRef, fromChatID int64, messageID int) (int, error) {
	if f.forwardErr != nil {
		return 0, f.forwardErr
	}
	f.forwarded = append(f.forwarded, messageID)
	f.nextChannelID++
	return f.nextChannelID, nil
}

func (f *fakeMessenger) CopyMessage(ctx context.Context, toChatID int64, from dto.ChatRef, messageID int) error {
	f.copied = append(f.copied, messageID)
	if f.copyFail[messageID] {
		return errors.New("Bad Request: message to copy not found")
	}
	return nil
}

func (f *fakeMessenger) DeleteMessage(ctx context.Context, chat dto.ChatRef, messageID int) error {
	if f.deleteFail[messageID] {
		return errors.New("Bad Request: message to delete not found")
	}
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeMessenger) lastText() string {
	if len(f.texts) == 0 {
		return ""
	}
	return f.texts[len(f.texts)-1].text
}

type fixture struct {
	handler   Handler
	messenger *fakeMessenger
	sessions  conversation.Store
	repo      repository.VideoRepository
	videos    service.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "videos.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	repo, err := repository.NewRepo(db, constant.DatabaseDriverSQLite, logger.Silent)
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(context.Background()))

	messenger := &fakeMessenger{nextChannelID: 100}
	sessions := conversation.NewMemoryStore()
	videos := service.NewService(repo, nil)

	return &fixture{
		handler:   NewHandler(messenger, videos, sessions, NewOperatorGate([]int64{operatorID}), archive),
		messenger: messenger,
		sessions:  sessions,
		repo:      repo,
		videos:    videos,
	}
}

func (f *fixture) send(t *testing.T, msg dto.IncomingMessage) {
	t.Helper()
	if msg.ChatID == 0 {
		msg.ChatID = chatID
	}
	require.NoError(t, f.handler.Handle(context.Background(), msg))
}

func (f *fixture) session(userID int64) conversation.Session {
	return f.sessions.Get(conversation.Key{ChatID: chatID, UserID: userID})
}

func (f *fixture) stored(t *testing.T, videoID string) []*entities.Video {
	t.Helper()
	videos, err := f.repo.FindByVideoID(context.Background(), videoID)
	require.NoError(t, err)
	return videos
}

func text(userID int64, s string) dto.IncomingMessage {
	return dto.IncomingMessage{UserID: userID, Text: s}
}

func command(userID int64, name, args string) dto.IncomingMessage {
	s := "/" + name
	if args != "" {
		s += " " + args
	}
	return dto.IncomingMessage{UserID: userID, Text: s, Command: name, CommandArgs: args}
}

func video(userID int64, messageID int, fileID, caption string) dto.IncomingMessage {
	return dto.IncomingMessage{
		UserID:    userID,
		MessageID: messageID,
		Caption:   caption,
		Video:     &dto.Video{FileID: fileID},
	}
}

func TestUploadFlow_EndToEnd(t *testing.T) {
	f := newFixture(t)

	f.send(t, text(operatorID, constant.ButtonAddVideo))
	assert.Equal(t, conversation.StateAwaitingVideo, f.session(operatorID).State)
	assert.Equal(t, constant.MsgSendOneVideo, f.messenger.lastText())

	f.send(t, video(operatorID, 7, "file-abc", "first dance"))
	assert.Equal(t, []int{7}, f.messenger.forwarded)
	session := f.session(operatorID)
	assert.Equal(t, conversation.StateAwaitingIdentifier, session.State)
	assert.Equal(t, "file-abc", session.FileID)
	assert.Equal(t, "first dance", session.Caption)
	assert.Equal(t, 101, session.ChannelMessageID)
	assert.Equal(t, constant.MsgVideoRelayed, f.messenger.lastText())

	f.send(t, text(operatorID, "25.11.2022"))

	videos := f.stored(t, "25.11.2022")
	require.Len(t, videos, 1)
	assert.Equal(t, "file-abc", videos[0].FileID)
	assert.Equal(t, "first dance", videos[0].Caption)
	assert.Equal(t, 101, videos[0].ChannelMessageID)
	assert.Equal(t, conversation.StateIdle, f.session(operatorID).State)
	assert.Equal(t, fmt.Sprintf(constant.MsgVideoSaved, "25.11.2022"), f.messenger.lastText())

	for _, sent := range f.messenger.texts {
		assert.Equal(t, chatID, sent.chatID)
		assert.Equal(t, []string{constant.ButtonAddVideo, constant.ButtonDeleteVideo}, sent.buttons)
	}
}

func TestUploadFlow_InvalidIdentifierKeepsPayload(t *testing.T) {
	f := newFixture(t)
	f.send(t, text(operatorID, constant.ButtonAddVideo))
	f.send(t, video(operatorID, 7, "file-abc", ""))

	f.send(t, text(operatorID, "2022.11.25"))

	assert.Equal(t, constant.MsgInvalidIdentifier, f.messenger.lastText())
	session := f.session(operatorID)
	assert.Equal(t, conversation.StateAwaitingIdentifier, session.State)
	assert.Equal(t, "file-abc", session.FileID)
	assert.Empty(t, f.stored(t, "2022.11.25"))

	f.send(t, text(operatorID, " 25.11.2022.1 "))

	videos := f.stored(t, "25.11.2022.1")
	require.Len(t, videos, 1)
	assert.Equal(t, "file-abc", videos[0].FileID)
	assert.Equal(t, conversation.StateIdle, f.session(operatorID).State)
}

func TestUploadFlow_RelayFailureResets(t *testing.T) {
	f := newFixture(t)
	f.messenger.forwardErr = errors.New("Bad Request: chat not found")
	f.send(t, text(operatorID, constant.ButtonAddVideo))

	f.send(t, video(operatorID, 7, "file-abc", ""))

	assert.Equal(t, conversation.StateIdle, f.session(operatorID).State)
	assert.Contains(t, f.messenger.lastText(), "chat not found")
}

func TestUploadFlow_AwaitingVideoRepromptsOnText(t *testing.T) {
	f := newFixture(t)
	f.send(t, text(operatorID, constant.ButtonAddVideo))

	f.send(t, text(operatorID, "hello"))

	assert.Equal(t, constant.MsgSendVideoFile, f.messenger.lastText())
	assert.Equal(t, conversation.StateAwaitingVideo, f.session(operatorID).State)
	assert.Empty(t, f.messenger.forwarded)
}

func TestUploadFlow_AddButtonRestarts(t *testing.T) {
	f := newFixture(t)
	f.send(t, text(operatorID, constant.ButtonAddVideo))
	f.send(t, video(operatorID, 7, "file-abc", "cap"))

	f.send(t, text(operatorID, constant.ButtonAddVideo))

	assert.Equal(t, conversation.Session{State: conversation.StateAwaitingVideo}, f.session(operatorID))
	assert.Equal(t, constant.MsgSendOneVideo, f.messenger.lastText())
}

func TestUploadFlow_AddButtonWhileAwaitingVideoRestarts(t *testing.T) {
	f := newFixture(t)
	f.send(t, text(operatorID, constant.ButtonAddVideo))

	f.send(t, text(operatorID, constant.ButtonAddVideo))

	assert.Equal(t, conversation.Session{State: conversation.StateAwaitingVideo}, f.session(operatorID))
	assert.Empty(t, f.messenger.forwarded)
	require.Len(t, f.messenger.texts, 2)
	assert.Equal(t, constant.MsgSendOneVideo, f.messenger.texts[1].text)
}

func TestUploadFlow_IdentifierWithoutVideoResets(t *testing.T) {
	f := newFixture(t)
	key := conversation.Key{ChatID: chatID, UserID: operatorID}
	f.sessions.Set(key, conversation.Session{State: conversation.StateAwaitingIdentifier})

	f.send(t, text(operatorID, "25.11.2022"))

	assert.Equal(t, constant.MsgVideoMissing, f.messenger.lastText())
	assert.Equal(t, conversation.StateIdle, f.session(operatorID).State)
	assert.Empty(t, f.stored(t, "25.11.2022"))
}

func TestUploadFlow_NewVideoWhileAwaitingIdentifierRestarts(t *testing.T) {
	f := newFixture(t)
	f.send(t, text(operatorID, constant.ButtonAddVideo))
	f.send(t, video(operatorID, 7, "file-old", "old"))

	f.send(t, video(operatorID, 8, "file-new", ""))

	assert.Equal(t, []int{7, 8}, f.messenger.forwarded)
	session := f.session(operatorID)
	assert.Equal(t, conversation.StateAwaitingIdentifier, session.State)
	assert.Equal(t, "file-new", session.FileID)
	assert.Empty(t, session.Caption)
	assert.Equal(t, 102, session.ChannelMessageID)

	f.send(t, text(operatorID, "25.11.2022"))
	videos := f.stored(t, "25.11.2022")
	require.Len(t, videos, 1)
	assert.Equal(t, "file-new", videos[0].FileID)
}

func TestUploadFlow_IdleOperatorGetsHint(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.videos.SaveVideo(context.Background(), "25.11.2022", "file", "", 50))

	f.send(t, text(operatorID, "25.11.2022"))
	f.send(t, video(operatorID, 9, "file-x", ""))

	assert.Empty(t, f.messenger.copied)
	assert.Empty(t, f.messenger.forwarded)
	require.Len(t, f.messenger.texts, 2)
	assert.Equal(t, constant.MsgOperatorHint, f.messenger.texts[0].text)
	assert.Equal(t, constant.MsgOperatorHint, f.messenger.texts[1].text)
}

func TestUploadFlow_CancelClearsState(t *testing.T) {
	f := newFixture(t)
	f.send(t, text(operatorID, constant.ButtonAddVideo))
	f.send(t, video(operatorID, 7, "file-abc", ""))

	f.send(t, command(operatorID, constant.CommandCancel, ""))

	assert.Equal(t, conversation.StateIdle, f.session(operatorID).State)
	assert.Equal(t, constant.MsgCancelled, f.messenger.lastText())
}

func TestOperatorStart_ShowsKeyboard(t *testing.T) {
	f := newFixture(t)

	f.send(t, command(operatorID, constant.CommandStart, ""))

	require.Len(t, f.messenger.texts, 1)
	assert.Equal(t, constant.MsgOperatorWelcome, f.messenger.texts[0].text)
	assert.Equal(t, []string{constant.ButtonAddVideo, constant.ButtonDeleteVideo}, f.messenger.texts[0].buttons)
}

func seed(t *testing.T, f *fixture, videoID string, channelMessageIDs ...int) {
	t.Helper()
	for i, id := range channelMessageIDs {
		err := f.repo.Insert(context.Background(), &entities.Video{
			VideoID:          videoID,
			FileID:           fmt.Sprintf("file-%d", i),
			ChannelMessageID: id,
		})
		require.NoError(t, err)
	}
}

func TestDeleteFlow_Button(t *testing.T) {
	f := newFixture(t)
	seed(t, f, "25.11.2022", 10, 0, 12)
	seed(t, f, "26.11.2022", 13)
	f.messenger.deleteFail = map[int]bool{12: true}

	f.send(t, text(operatorID, constant.ButtonDeleteVideo))
	assert.Equal(t, conversation.Session{State: conversation.StateAwaitingIdentifier, DeleteMode: true}, f.session(operatorID))
	assert.Equal(t, constant.MsgSendDeleteID, f.messenger.lastText())

	f.send(t, text(operatorID, "25.11.2022"))

	assert.Equal(t, []int{10}, f.messenger.deleted)
	assert.Empty(t, f.stored(t, "25.11.2022"))
	assert.Len(t, f.stored(t, "26.11.2022"), 1)
	assert.Equal(t, fmt.Sprintf(constant.MsgVideosDeleted, "25.11.2022", 3, 1, 1), f.messenger.lastText())
	assert.Equal(t, conversation.StateIdle, f.session(operatorID).State)
}

func TestDeleteFlow_InlineCommand(t *testing.T) {
	f := newFixture(t)
	seed(t, f, "25.11.2022", 10, 11)

	f.send(t, command(operatorID, constant.CommandDelete, "25.11.2022"))

	assert.Equal(t, []int{10, 11}, f.messenger.deleted)
	assert.Empty(t, f.stored(t, "25.11.2022"))
	assert.Equal(t, fmt.Sprintf(constant.MsgVideosDeleted, "25.11.2022", 2, 2, 0), f.messenger.lastText())
	assert.Equal(t, conversation.StateIdle, f.session(operatorID).State)
}

func TestDeleteFlow_CommandWithoutArgumentAsks(t *testing.T) {
	f := newFixture(t)

	f.send(t, command(operatorID, constant.CommandDelete, ""))

	assert.True(t, f.session(operatorID).DeleteMode)
	assert.Equal(t, constant.MsgSendDeleteID, f.messenger.lastText())
}

func TestDeleteFlow_InvalidIdentifierKeepsDeleteMode(t *testing.T) {
	f := newFixture(t)
	seed(t, f, "25.11.2022", 10)
	f.send(t, text(operatorID, constant.ButtonDeleteVideo))

	f.send(t, text(operatorID, "everything"))

	assert.Equal(t, constant.MsgInvalidIdentifier, f.messenger.lastText())
	assert.True(t, f.session(operatorID).DeleteMode)
	assert.Len(t, f.stored(t, "25.11.2022"), 1)
	assert.Empty(t, f.messenger.deleted)
}

func TestDeleteFlow_VideoInDeleteModeDoesNotUpload(t *testing.T) {
	f := newFixture(t)
	f.send(t, text(operatorID, constant.ButtonDeleteVideo))

	f.send(t, video(operatorID, 7, "file-abc", ""))

	assert.Empty(t, f.messenger.forwarded)
	assert.Equal(t, constant.MsgSendDeleteID, f.messenger.lastText())
	assert.True(t, f.session(operatorID).DeleteMode)
}

func TestLookup_ReplaysOnlyLinkedRecords(t *testing.T) {
	f := newFixture(t)
	seed(t, f, "25.11.2022", 300, 0)

	f.send(t, text(requesterID, "25.11.2022"))

	assert.Equal(t, []int{300}, f.messenger.copied)
	assert.Empty(t, f.messenger.texts)
}

func TestLookup_NotFound(t *testing.T) {
	f := newFixture(t)

	f.send(t, text(requesterID, "1.1.2000"))

	assert.Empty(t, f.messenger.copied)
	require.Len(t, f.messenger.texts, 1)
	assert.Equal(t, constant.MsgVideosNotFound, f.messenger.texts[0].text)
	assert.Empty(t, f.messenger.texts[0].buttons)
}

func TestLookup_ReplayFailureContinues(t *testing.T) {
	f := newFixture(t)
	seed(t, f, "25.11.2022", 300, 301, 302)
	f.messenger.copyFail = map[int]bool{301: true}

	f.send(t, text(requesterID, " 25.11.2022 "))

	assert.Equal(t, []int{300, 301, 302}, f.messenger.copied)
	require.Len(t, f.messenger.texts, 1)
	assert.Equal(t, constant.MsgVideoUnavailable, f.messenger.texts[0].text)
}

func TestLookup_UnavailableNoticeFailureContinues(t *testing.T) {
	f := newFixture(t)
	seed(t, f, "25.11.2022", 300, 301, 302)
	f.messenger.copyFail = map[int]bool{300: true}
	f.messenger.sendErr = errors.New("Too Many Requests: retry after 5")

	err := f.handler.Handle(context.Background(), dto.IncomingMessage{ChatID: chatID, UserID: requesterID, Text: "25.11.2022"})

	assert.ErrorIs(t, err, f.messenger.sendErr)
	assert.Equal(t, []int{300, 301, 302}, f.messenger.copied)
	require.Len(t, f.messenger.texts, 1)
	assert.Equal(t, constant.MsgVideoUnavailable, f.messenger.texts[0].text)
}

func TestLookup_UnknownCommandIsLookedUp(t *testing.T) {
	f := newFixture(t)
	seed(t, f, "25.11.2022", 300)

	f.send(t, command(requesterID, "help", ""))

	assert.Empty(t, f.messenger.copied)
	require.Len(t, f.messenger.texts, 1)
	assert.Equal(t, constant.MsgVideosNotFound, f.messenger.texts[0].text)
}

func TestLookup_IgnoresCommandsButtonsAndMedia(t *testing.T) {
	f := newFixture(t)
	seed(t, f, "25.11.2022", 300)

	f.send(t, text(requesterID, constant.ButtonAddVideo))
	f.send(t, text(requesterID, constant.ButtonDeleteVideo))
	f.send(t, command(requesterID, constant.CommandDelete, "25.11.2022"))
	f.send(t, command(requesterID, constant.CommandCancel, ""))
	f.send(t, video(requesterID, 3, "file", ""))

	assert.Empty(t, f.messenger.texts)
	assert.Empty(t, f.messenger.copied)
	assert.Len(t, f.stored(t, "25.11.2022"), 1)
}

func TestRequesterStart_Greets(t *testing.T) {
	f := newFixture(t)

	f.send(t, command(requesterID, constant.CommandStart, ""))

	require.Len(t, f.messenger.texts, 1)
	assert.Equal(t, constant.MsgRequesterWelcome, f.messenger.texts[0].text)
}

func TestGate_RequesterNeverEntersUpload(t *testing.T) {
	f := newFixture(t)

	f.send(t, text(requesterID, constant.ButtonAddVideo))
	f.send(t, video(requesterID, 7, "file-abc", ""))
	f.send(t, text(requesterID, "25.11.2022"))

	assert.Equal(t, conversation.Session{}, f.session(requesterID))
	assert.Empty(t, f.messenger.forwarded)
	assert.Empty(t, f.stored(t, "25.11.2022"))
	require.Len(t, f.messenger.texts, 1)
	assert.Equal(t, constant.MsgVideosNotFound, f.messenger.texts[0].text)
}

func TestOperatorGate(t *testing.T) {
	ids := []int64{1, 2}
	gate := NewOperatorGate(ids)
	ids[0] = 99

	assert.True(t, gate.IsOperator(1))
	assert.True(t, gate.IsOperator(2))
	assert.False(t, gate.IsOperator(99))
	assert.False(t, gate.IsOperator(0))
}
