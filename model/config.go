package model

import "time"

// Config 对应于 config.yaml 的顶级结构
type Config struct {
	Token               string `mapstructure:"TOKEN"`
	GuildID             string `mapstructure:"GUILD_ID"`
	ApprovalChannelID   string `mapstructure:"APPROVAL_CHANNEL_ID"`
	CreatePostChannelID string `mapstructure:"CREATE_POST_CHANNEL_ID"`
	FeedbackChannelID   string `mapstructure:"IAF_CHANNEL_ID"`
	BugReportChannelID  string `mapstructure:"BUG_REPORT_CHANNEL_ID"`

	Commands Commands `mapstructure:"commands"`
	Storage  Storage  `mapstructure:"storage"`
	Review   Review   `mapstructure:"review"`
	GRPC     GRPC     `mapstructure:"grpc"`
}

// ChannelFor resolves one of the destination channel keys used by KindSpec.
func (c *Config) ChannelFor(key string) string {
	switch key {
	case "APPROVAL_CHANNEL_ID":
		return c.ApprovalChannelID
	case "CREATE_POST_CHANNEL_ID":
		return c.CreatePostChannelID
	case "IAF_CHANNEL_ID":
		return c.FeedbackChannelID
	case "BUG_REPORT_CHANNEL_ID":
		return c.BugReportChannelID
	}
	return ""
}

// Commands 对应 "commands" 部分
type Commands struct {
	Allowguils []string `mapstructure:"allowguils"`
	Auth       Auth     `mapstructure:"auth"`
}

// Auth 对应 "auth" 部分
type Auth struct {
	Developers  []string `mapstructure:"Developers"`
	AdminsRoles []string `mapstructure:"AdminsRoles"`
}

// Storage selects the submission store backend.
type Storage struct {
	Driver     string `mapstructure:"driver"`
	DataDir    string `mapstructure:"data_dir"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type Review struct {
	EnableDuplicate     bool          `mapstructure:"enable_duplicate"`
	SkipMissingMessages bool          `mapstructure:"skip_missing_messages"`
	PendingTTL          time.Duration `mapstructure:"pending_ttl"`
	ActionTimeout       time.Duration `mapstructure:"action_timeout"`
}

type GRPC struct {
	ListenAddress string `mapstructure:"listen_address"`
}
