package service

import (
	"context"
	"testing"

	"howudoin/internal/models"
)

type messageRepoStub struct {
	createDirectFn       func(context.Context, *models.Message) error
	getDirectByIDFn      func(context.Context, uint) (*models.Message, error)
	getConversationFn    func(context.Context, uint, uint, int, int) ([]models.Message, error)
	getUnreadFn          func(context.Context, uint) ([]models.Message, error)
	getSentByFn          func(context.Context, uint, int, int) ([]models.Message, error)
	getReceivedByFn      func(context.Context, uint, int, int) ([]models.Message, error)
	updateDirectStatusFn func(context.Context, uint, models.MessageStatus) error
	deleteConversationFn func(context.Context, uint, uint) error
	createGroupMessageFn func(context.Context, *models.GroupMessage) error
	getGroupMessagesFn   func(context.Context, uint, int, int) ([]models.GroupMessage, error)
	countGroupMessagesFn func(context.Context, uint) (int64, error)
}

func (s *messageRepoStub) CreateDirect(ctx context.Context, msg *models.Message) error {
	return s.createDirectFn(ctx, msg)
}
func (s *messageRepoStub) GetDirectByID(ctx context.Context, id uint) (*models.Message, error) {
	return s.getDirectByIDFn(ctx, id)
}
func (s *messageRepoStub) GetConversation(ctx context.Context, userID1, userID2 uint, limit, offset int) ([]models.Message, error) {
	return s.getConversationFn(ctx, userID1, userID2, limit, offset)
}
func (s *messageRepoStub) GetUnread(ctx context.Context, userID uint) ([]models.Message, error) {
	return s.getUnreadFn(ctx, userID)
}
func (s *messageRepoStub) GetSentBy(ctx context.Context, userID uint, limit, offset int) ([]models.Message, error) {
	return s.getSentByFn(ctx, userID, limit, offset)
}
func (s *messageRepoStub) GetReceivedBy(ctx context.Context, userID uint, limit, offset int) ([]models.Message, error) {
	return s.getReceivedByFn(ctx, userID, limit, offset)
}
func (s *messageRepoStub) UpdateDirectStatus(ctx context.Context, msgID uint, status models.MessageStatus) error {
	return s.updateDirectStatusFn(ctx, msgID, status)
}
func (s *messageRepoStub) DeleteConversation(ctx context.Context, userID1, userID2 uint) error {
	return s.deleteConversationFn(ctx, userID1, userID2)
}
func (s *messageRepoStub) CreateGroupMessage(ctx context.Context, msg *models.GroupMessage) error {
	return s.createGroupMessageFn(ctx, msg)
}
func (s *messageRepoStub) GetGroupMessages(ctx context.Context, groupID uint, limit, offset int) ([]models.GroupMessage, error) {
	return s.getGroupMessagesFn(ctx, groupID, limit, offset)
}
func (s *messageRepoStub) CountGroupMessages(ctx context.Context, groupID uint) (int64, error) {
	return s.countGroupMessagesFn(ctx, groupID)
}

func noopMessageRepo() *messageRepoStub {
	return &messageRepoStub{
		createDirectFn:  func(context.Context, *models.Message) error { return nil },
		getDirectByIDFn: func(context.Context, uint) (*models.Message, error) { return &models.Message{}, nil },
		getConversationFn: func(context.Context, uint, uint, int, int) ([]models.Message, error) {
			return nil, nil
		},
		getUnreadFn:          func(context.Context, uint) ([]models.Message, error) { return nil, nil },
		getSentByFn:          func(context.Context, uint, int, int) ([]models.Message, error) { return nil, nil },
		getReceivedByFn:      func(context.Context, uint, int, int) ([]models.Message, error) { return nil, nil },
		updateDirectStatusFn: func(context.Context, uint, models.MessageStatus) error { return nil },
		deleteConversationFn: func(context.Context, uint, uint) error { return nil },
		createGroupMessageFn: func(context.Context, *models.GroupMessage) error { return nil },
		getGroupMessagesFn: func(context.Context, uint, int, int) ([]models.GroupMessage, error) {
			return nil, nil
		},
		countGroupMessagesFn: func(context.Context, uint) (int64, error) { return 0, nil },
	}
}

// friendsRepo returns a friend repo whose pair lookup reports an accepted edge.
func friendsRepo() *friendRepoStub {
	repo := noopFriendRepo()
	repo.getEdgeBetweenUsersFn = func(context.Context, uint, uint) (*models.Friendship, error) {
		return &models.Friendship{Status: models.FriendshipStatusAccepted}, nil
	}
	return repo
}

func newMessageService(msgRepo *messageRepoStub, friendRepo *friendRepoStub, groupRepo *groupRepoStub) *MessageService {
	return NewMessageService(
		msgRepo,
		NewFriendService(friendRepo, noopUserRepo()),
		NewGroupService(groupRepo, noopUserRepo()),
	)
}

func TestMessageServiceSendToNonFriend(t *testing.T) {
	svc := newMessageService(noopMessageRepo(), noopFriendRepo(), noopGroupRepo())
	_, err := svc.SendMessage(context.Background(), 1, 2, "hey")
	assertAppErrCode(t, err, "FORBIDDEN")
}

func TestMessageServiceSendToBlockedUser(t *testing.T) {
	repo := noopFriendRepo()
	repo.getEdgeBetweenUsersFn = func(context.Context, uint, uint) (*models.Friendship, error) {
		return &models.Friendship{Status: models.FriendshipStatusBlocked}, nil
	}
	svc := newMessageService(noopMessageRepo(), repo, noopGroupRepo())
	_, err := svc.SendMessage(context.Background(), 1, 2, "hey")
	assertAppErrCode(t, err, "FORBIDDEN")
}

func TestMessageServiceSendToSelf(t *testing.T) {
	svc := newMessageService(noopMessageRepo(), friendsRepo(), noopGroupRepo())
	_, err := svc.SendMessage(context.Background(), 1, 1, "hey")
	assertAppErrCode(t, err, "SELF_REFERENCE")
}

func TestMessageServiceSendEmptyContent(t *testing.T) {
	svc := newMessageService(noopMessageRepo(), friendsRepo(), noopGroupRepo())
	_, err := svc.SendMessage(context.Background(), 1, 2, "")
	assertAppErrCode(t, err, "VALIDATION_ERROR")
}

func TestMessageServiceSendToFriend(t *testing.T) {
	var created *models.Message
	repo := noopMessageRepo()
	repo.createDirectFn = func(_ context.Context, msg *models.Message) error {
		msg.ID = 42
		created = msg
		return nil
	}
	repo.getDirectByIDFn = func(context.Context, uint) (*models.Message, error) {
		return created, nil
	}

	svc := newMessageService(repo, friendsRepo(), noopGroupRepo())
	got, err := svc.SendMessage(context.Background(), 1, 2, "hey")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != models.MessageStatusSent {
		t.Fatalf("new messages must start as sent, got %s", got.Status)
	}
}

func TestMessageServiceConversationRequiresFriendship(t *testing.T) {
	svc := newMessageService(noopMessageRepo(), noopFriendRepo(), noopGroupRepo())
	_, err := svc.GetConversation(context.Background(), 1, 2, 50, 0)
	assertAppErrCode(t, err, "FORBIDDEN")
}

func TestMessageServiceMarkReadReceiverOnly(t *testing.T) {
	repo := noopMessageRepo()
	repo.getDirectByIDFn = func(context.Context, uint) (*models.Message, error) {
		return &models.Message{ID: 42, SenderID: 1, ReceiverID: 2, Status: models.MessageStatusSent}, nil
	}

	svc := newMessageService(repo, friendsRepo(), noopGroupRepo())

	// The sender may not advance the status.
	_, err := svc.MarkRead(context.Background(), 42, 1)
	assertAppErrCode(t, err, "FORBIDDEN")
}

func TestMessageServiceStatusNeverMovesBackwards(t *testing.T) {
	updates := 0
	repo := noopMessageRepo()
	repo.getDirectByIDFn = func(context.Context, uint) (*models.Message, error) {
		return &models.Message{ID: 42, SenderID: 1, ReceiverID: 2, Status: models.MessageStatusRead}, nil
	}
	repo.updateDirectStatusFn = func(context.Context, uint, models.MessageStatus) error {
		updates++
		return nil
	}

	svc := newMessageService(repo, friendsRepo(), noopGroupRepo())
	got, err := svc.MarkDelivered(context.Background(), 42, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != models.MessageStatusRead {
		t.Fatalf("expected status to stay read, got %s", got.Status)
	}
	if updates != 0 {
		t.Fatal("downgrade attempt must not write")
	}
}

func TestMessageServiceMarkReadIdempotent(t *testing.T) {
	updates := 0
	repo := noopMessageRepo()
	repo.getDirectByIDFn = func(context.Context, uint) (*models.Message, error) {
		return &models.Message{ID: 42, SenderID: 1, ReceiverID: 2, Status: models.MessageStatusRead}, nil
	}
	repo.updateDirectStatusFn = func(context.Context, uint, models.MessageStatus) error {
		updates++
		return nil
	}

	svc := newMessageService(repo, friendsRepo(), noopGroupRepo())
	got, err := svc.MarkRead(context.Background(), 42, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != models.MessageStatusRead || updates != 0 {
		t.Fatal("re-reading a read message must be a no-op")
	}
}

func TestMessageServiceMarkDelivered(t *testing.T) {
	var written models.MessageStatus
	repo := noopMessageRepo()
	repo.getDirectByIDFn = func(context.Context, uint) (*models.Message, error) {
		return &models.Message{ID: 42, SenderID: 1, ReceiverID: 2, Status: models.MessageStatusSent}, nil
	}
	repo.updateDirectStatusFn = func(_ context.Context, _ uint, status models.MessageStatus) error {
		written = status
		return nil
	}

	svc := newMessageService(repo, friendsRepo(), noopGroupRepo())
	got, err := svc.MarkDelivered(context.Background(), 42, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if written != models.MessageStatusDelivered || got.Status != models.MessageStatusDelivered {
		t.Fatalf("expected delivered, wrote %s, got %s", written, got.Status)
	}
}

func TestMessageServiceGroupSendRequiresMembership(t *testing.T) {
	groups := noopGroupRepo()
	groups.isMemberFn = func(context.Context, uint, uint) (bool, error) { return false, nil }

	svc := newMessageService(noopMessageRepo(), friendsRepo(), groups)
	_, err := svc.SendGroupMessage(context.Background(), 1, 2, "hello all")
	assertAppErrCode(t, err, "FORBIDDEN")
}

func TestMessageServiceGroupSend(t *testing.T) {
	var created *models.GroupMessage
	repo := noopMessageRepo()
	repo.createGroupMessageFn = func(_ context.Context, msg *models.GroupMessage) error {
		msg.ID = 7
		created = msg
		return nil
	}

	svc := newMessageService(repo, friendsRepo(), noopGroupRepo())
	got, err := svc.SendGroupMessage(context.Background(), 3, 2, "hello all")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil || got.GroupID != 3 || got.SenderID != 2 {
		t.Fatalf("unexpected message %#v", got)
	}
}

func TestMessageServiceGroupHistoryRequiresMembership(t *testing.T) {
	groups := noopGroupRepo()
	groups.isMemberFn = func(context.Context, uint, uint) (bool, error) { return false, nil }

	svc := newMessageService(noopMessageRepo(), friendsRepo(), groups)
	_, err := svc.GetGroupMessages(context.Background(), 1, 2, 50, 0)
	assertAppErrCode(t, err, "FORBIDDEN")
}
