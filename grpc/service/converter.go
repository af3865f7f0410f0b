package service

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/TheFungusAmongUs/GeoBot/model"
	"github.com/TheFungusAmongUs/GeoBot/utils"
)

// SubmissionToStruct converts a model.Submission to a Struct message.
// Content sections become a list so their order survives.
func SubmissionToStruct(sub *model.Submission, guildID, approvalChannelID string) (*structpb.Struct, error) {
	if sub == nil {
		return nil, nil
	}

	content := make([]any, 0, len(sub.Content))
	for _, sec := range sub.Content {
		content = append(content, map[string]any{"label": sec.Label, "text": sec.Text})
	}

	s, err := structpb.NewStruct(map[string]any{
		"id":          sub.ID,
		"kind":        string(sub.Kind),
		"status":      string(sub.Status),
		"title":       sub.Title,
		"author_id":   sub.Author.ID,
		"author_name": sub.Author.String(),
		"content":     content,
		"link":        utils.MessageLink(guildID, approvalChannelID, sub.ID),
	})
	if err != nil {
		return nil, fmt.Errorf("converting submission %s: %w", sub.ID, err)
	}
	return s, nil
}

// SubmissionsToList converts submissions to a list value, keeping order.
func SubmissionsToList(subs []*model.Submission, guildID, approvalChannelID string) (*structpb.ListValue, error) {
	list := &structpb.ListValue{}
	for _, sub := range subs {
		s, err := SubmissionToStruct(sub, guildID, approvalChannelID)
		if err != nil {
			return nil, err
		}
		if s != nil {
			list.Values = append(list.Values, structpb.NewStructValue(s))
		}
	}
	return list, nil
}
