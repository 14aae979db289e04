package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"couple-scheduler/internal/auth"
	"couple-scheduler/internal/cache"
	"couple-scheduler/internal/model"
)

const minPasswordLen = 8

// Identity owns user records and the partner relation.
type Identity struct {
	store    UserStore
	tokens   TokenIssuer
	cache    cache.Cache // optional
	cacheTTL time.Duration
	log      *zap.Logger
}

func NewIdentity(st UserStore, tokens TokenIssuer, c cache.Cache, cacheTTL time.Duration, log *zap.Logger) *Identity {
	return &Identity{store: st, tokens: tokens, cache: c, cacheTTL: cacheTTL, log: log}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates the account and returns it with a session token.
func (s *Identity) Register(ctx context.Context, in RegisterInput) (*model.User, string, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, "", fmt.Errorf("%w: username, email and password required", model.ErrValidation)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, "", fmt.Errorf("%w: invalid email", model.ErrValidation)
	}
	if len(in.Password) < minPasswordLen {
		return nil, "", fmt.Errorf("%w: password too short", model.ErrValidation)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	tok, err := s.tokens.Make(u.ID, u.Username)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	s.log.Info("user registered", zap.String("user_id", u.ID))
	return u, tok, nil
}

func (s *Identity) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password required", model.ErrValidation)
	}

	u, err := s.store.UserByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return nil, "", model.ErrBadCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("load user: %w", err)
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, "", model.ErrBadCredentials
	}

	tok, err := s.tokens.Make(u.ID, u.Username)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	return u, tok, nil
}

// BindPartner pairs uid with the user registered under partnerEmail and
// returns the partner. Pairing is set-once: re-binding the same pair
// succeeds, binding to anyone else fails with ErrAlreadyPaired.
func (s *Identity) BindPartner(ctx context.Context, uid, partnerEmail string) (*model.User, error) {
	partnerEmail = strings.ToLower(strings.TrimSpace(partnerEmail))
	if partnerEmail == "" {
		return nil, fmt.Errorf("%w: partnerEmail required", model.ErrValidation)
	}

	partner, err := s.store.UserByEmail(ctx, partnerEmail)
	if err != nil {
		return nil, fmt.Errorf("partner lookup: %w", err)
	}
	if partner.ID == uid {
		return nil, model.ErrSelfBind
	}

	me, err := s.store.UserByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if me.PartnerID == partner.ID && partner.PartnerID == uid {
		return partner, nil
	}
	if (me.HasPartner() && me.PartnerID != partner.ID) || (partner.HasPartner() && partner.PartnerID != uid) {
		return nil, model.ErrAlreadyPaired
	}

	if err := s.store.BindPartners(ctx, uid, partner.ID); err != nil {
		return nil, fmt.Errorf("bind partners: %w", err)
	}
	s.invalidate(ctx, uid, partner.ID)

	partner.PartnerID = uid
	s.log.Info("partners bound", zap.String("user_id", uid), zap.String("partner_id", partner.ID))
	return partner, nil
}

func (s *Identity) GetPartner(ctx context.Context, uid string) (*model.User, error) {
	me, err := s.User(ctx, uid)
	if err != nil {
		return nil, err
	}
	if !me.HasPartner() {
		return nil, model.ErrNoPartnerBound
	}
	return s.User(ctx, me.PartnerID)
}

// User loads a profile, going through the cache when one is configured.
// Cached copies never carry the password hash.
func (s *Identity) User(ctx context.Context, id string) (*model.User, error) {
	key := userKey(id)
	if s.cache != nil {
		var u model.User
		err := s.cache.GetJSON(ctx, key, &u)
		if err == nil {
			return &u, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.log.Warn("user cache read failed", zap.String("user_id", id), zap.Error(err))
		}
	}

	u, err := s.store.UserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w", id, err)
	}
	// Unpaired profiles stay uncached: a read racing BindPartner could
	// otherwise store the pre-bind row after the invalidate. Pairing is
	// set-once, so a paired profile never goes stale on partnerId.
	if s.cache != nil && u.HasPartner() {
		if err := s.cache.SetJSON(ctx, key, u, s.cacheTTL); err != nil {
			s.log.Warn("user cache write failed", zap.String("user_id", id), zap.Error(err))
		}
	}
	return u, nil
}

func (s *Identity) invalidate(ctx context.Context, ids ...string) {
	if s.cache == nil {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = userKey(id)
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.Warn("user cache invalidate failed", zap.Strings("user_ids", ids), zap.Error(err))
	}
}

func userKey(id string) string { return "user:" + id }
