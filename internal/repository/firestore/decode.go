package firestore

import (
	"fmt"
	"sort"
	"time"

	gcfirestore "cloud.google.com/go/firestore"
	"github.com/Freeeeeet/postqueue_bot/internal/model"
)

// Поля записи поста внутри месячного документа
const (
	fieldTitle       = "title"
	fieldText        = "text"
	fieldProfile     = "profile"
	fieldProfileID   = "profileId"
	fieldStatus      = "status"
	fieldScheduledAt = "scheduledPostAt"
	fieldPostedAt    = "postedAt"
	fieldMessage     = "message"
	fieldTimeSlot    = "timeSlot"
	fieldDate        = "scheduledDate"
	fieldUpdatedAt   = "updatedAt"
)

// Поля документа таймслотов
const (
	fieldSlots      = "slots"
	fieldLegacyTime = "predefinedTimeSlots"
	fieldLegacyDays = "activeDays"
)

// decodeMonth разбирает месячный документ postId -> запись поста.
// Записи без времени плана и публикации пропускаются.
func decodeMonth(clientID string, data map[string]interface{}) []model.ScheduledPost {
	posts := make([]model.ScheduledPost, 0, len(data))
	for id, raw := range data {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		post, ok := decodePost(clientID, id, entry)
		if !ok {
			continue
		}
		posts = append(posts, post)
	}

	sort.Slice(posts, func(i, j int) bool {
		a, b := posts[i].ScheduledAt, posts[j].ScheduledAt
		if a.Seconds != b.Seconds {
			return a.Seconds < b.Seconds
		}
		return posts[i].ID < posts[j].ID
	})
	return posts
}

func decodePost(clientID, id string, entry map[string]interface{}) (model.ScheduledPost, bool) {
	post := model.ScheduledPost{
		ID:          id,
		ClientID:    clientID,
		Title:       stringField(entry, fieldTitle),
		Text:        stringField(entry, fieldText),
		ProfileID:   stringField(entry, fieldProfileID),
		ProfileName: stringField(entry, fieldProfile),
		Message:     stringField(entry, fieldMessage),
	}
	if t, ok := timeField(entry, fieldScheduledAt); ok {
		post.ScheduledAt = model.TimestampPtr(t)
	}
	if t, ok := timeField(entry, fieldPostedAt); ok {
		post.PostedAt = model.TimestampPtr(t)
	}
	if post.ScheduledAt == nil && post.PostedAt == nil {
		return model.ScheduledPost{}, false
	}

	post.Status = model.DefaultStatus(stringField(entry, fieldStatus), post.ScheduledAt, post.PostedAt)
	if post.ScheduledAt == nil {
		ts := *post.PostedAt
		post.ScheduledAt = &ts
	}
	return post, true
}

// encodePost запись поста для месячного документа
func encodePost(post model.ScheduledPost, loc *time.Location) map[string]interface{} {
	entry := map[string]interface{}{
		fieldTitle:   post.Title,
		fieldText:    post.Text,
		fieldProfile: post.ProfileName,
		fieldStatus:  post.Status.String(),
	}
	if post.ProfileID != "" {
		entry[fieldProfileID] = post.ProfileID
	}
	if post.Message != "" {
		entry[fieldMessage] = post.Message
	}
	if post.PostedAt != nil {
		entry[fieldPostedAt] = post.PostedAt.Time()
	}
	if at, ok := post.ScheduledTime(); ok {
		local := at.In(loc)
		entry[fieldScheduledAt] = at
		entry[fieldTimeSlot] = local.Format("15:04")
		entry[fieldDate] = local.Format("2006-01-02")
	}
	return entry
}

// encodeIdea поля документа ideas/{postID}: статус и время публикации.
// Снятый с плана пост теряет scheduledPostAt.
func encodeIdea(post model.ScheduledPost) map[string]interface{} {
	fields := map[string]interface{}{
		fieldStatus:    post.Status.String(),
		fieldUpdatedAt: gcfirestore.ServerTimestamp,
	}
	if at, ok := post.ScheduledTime(); ok {
		fields[fieldScheduledAt] = at
	} else {
		fields[fieldScheduledAt] = gcfirestore.Delete
	}
	return fields
}

func monthDocID(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(monthLayout)
}

// decodeTimeslots понимает новый формат (slots: day -> time -> profiles)
// и старый {predefinedTimeSlots, activeDays}
func decodeTimeslots(data map[string]interface{}) (model.TimeslotConfig, error) {
	if raw, ok := data[fieldSlots].(map[string]interface{}); ok {
		cfg := make(model.TimeslotConfig, len(raw))
		for dayName, rawTimes := range raw {
			day, err := model.ParseDayName(dayName)
			if err != nil {
				return nil, err
			}
			times, _ := rawTimes.(map[string]interface{})
			inner := make(map[string][]model.AssignedProfile, len(times))
			for clock, rawProfiles := range times {
				if _, _, err := model.ParseClock(clock); err != nil {
					return nil, fmt.Errorf("%s: %w", day, err)
				}
				inner[clock] = decodeProfiles(rawProfiles)
			}
			cfg[day] = inner
		}
		return cfg, nil
	}

	times := stringSlice(data[fieldLegacyTime])
	days := stringSlice(data[fieldLegacyDays])
	if len(times) == 0 || len(days) == 0 {
		return model.TimeslotConfig{}, nil
	}
	return model.FromLegacy(times, days)
}

// encodeTimeslots пишет оба формата, чтобы старый дашборд продолжал видеть слоты
func encodeTimeslots(cfg model.TimeslotConfig) map[string]interface{} {
	slots := make(map[string]interface{}, len(cfg))
	for day, times := range cfg {
		inner := make(map[string]interface{}, len(times))
		for clock, profiles := range times {
			list := make([]interface{}, 0, len(profiles))
			for _, p := range profiles {
				list = append(list, map[string]interface{}{
					"id":        p.ID,
					"name":      p.Name,
					"avatarUrl": p.AvatarURL,
				})
			}
			inner[clock] = list
		}
		slots[string(day)] = inner
	}

	days := make([]string, 0, len(cfg))
	for _, d := range cfg.ActiveDays() {
		days = append(days, string(d))
	}

	return map[string]interface{}{
		fieldSlots:      slots,
		fieldLegacyTime: cfg.PredefinedTimes(),
		fieldLegacyDays: days,
	}
}

func decodeProfiles(raw interface{}) []model.AssignedProfile {
	list, _ := raw.([]interface{})
	profiles := make([]model.AssignedProfile, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		profiles = append(profiles, model.AssignedProfile{
			ID:        stringField(m, "id"),
			Name:      stringField(m, "name"),
			AvatarURL: stringField(m, "avatarUrl"),
		})
	}
	return profiles
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func timeField(m map[string]interface{}, key string) (time.Time, bool) {
	switch v := m[key].(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, true
	default:
		return time.Time{}, false
	}
}

func stringSlice(raw interface{}) []string {
	switch v := raw.(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
