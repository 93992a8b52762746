package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/postqueue_bot/internal/model"
	"go.uber.org/zap"
)

type UserService struct {
	userRepo      UserStore
	clientRepo    ClientStore
	defaultAgency string
	logger        *zap.Logger
}

func NewUserService(userRepo UserStore, clientRepo ClientStore, defaultAgency string, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo:      userRepo,
		clientRepo:    clientRepo,
		defaultAgency: defaultAgency,
		logger:        logger,
	}
}

// RegisterUser регистрирует или обновляет оператора
func (s *UserService) RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName, languageCode string) (*model.User, error) {
	// Проверяем существует ли пользователь
	existingUser, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	// Если пользователь уже существует, обновляем данные
	if existingUser != nil {
		existingUser.Username = username
		existingUser.FirstName = firstName
		existingUser.LastName = lastName
		existingUser.LanguageCode = languageCode
		if existingUser.AgencyID == "" {
			existingUser.AgencyID = s.defaultAgency
		}

		err = s.userRepo.Update(ctx, existingUser)
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}

		s.logger.Info("User updated",
			zap.Int64("telegram_id", telegramID),
			zap.String("username", username),
		)

		return existingUser, nil
	}

	// Создаём нового оператора в агентстве по умолчанию
	user := &model.User{
		TelegramID:   telegramID,
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		LanguageCode: languageCode,
		AgencyID:     s.defaultAgency,
	}

	err = s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("New user registered",
		zap.Int64("user_id", user.ID),
		zap.Int64("telegram_id", telegramID),
		zap.String("username", username),
		zap.String("agency_id", user.AgencyID),
	)

	return user, nil
}

// GetByTelegramID получает оператора по Telegram ID
func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	return s.userRepo.GetByTelegramID(ctx, telegramID)
}

// ListClients клиенты агентства оператора
func (s *UserService) ListClients(ctx context.Context, user *model.User) ([]*model.Client, error) {
	if !user.HasAgency() {
		return nil, ErrNoAgency
	}

	clients, err := s.clientRepo.ListByAgency(ctx, user.AgencyID)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

// SelectClient делает клиента текущим для оператора
func (s *UserService) SelectClient(ctx context.Context, user *model.User, clientID string) (*model.Client, error) {
	if !user.HasAgency() {
		return nil, ErrNoAgency
	}

	client, err := s.clientRepo.GetByID(ctx, user.AgencyID, clientID)
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	if client == nil {
		return nil, ErrClientNotFound
	}

	if err := s.userRepo.SetCurrentClient(ctx, user.ID, &client.ID); err != nil {
		return nil, fmt.Errorf("set current client: %w", err)
	}
	user.CurrentClientID = &client.ID

	s.logger.Info("Client selected",
		zap.Int64("telegram_id", user.TelegramID),
		zap.String("client_id", client.ID),
	)

	return client, nil
}
