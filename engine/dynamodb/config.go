package dynamodb

import (
	"github.com/gantryhq/gantry/engine/core"
)

// Config is the fully resolved DynamoDB table configuration handed to
// synthesis. Capacity fields are only meaningful under provisioned billing;
// they may survive a billing-mode downgrade from a lower layer and are
// ignored by synthesis in that case rather than rejected here.
type Config struct {
	TableName              string                   `json:"tableName"                        yaml:"tableName"                        mapstructure:"tableName"              validate:"required"`
	PartitionKey           KeyAttribute             `json:"partitionKey"                     yaml:"partitionKey"                     mapstructure:"partitionKey"           validate:"required"`
	SortKey                *KeyAttribute            `json:"sortKey,omitempty"                yaml:"sortKey,omitempty"                mapstructure:"sortKey"`
	BillingMode            string                   `json:"billingMode"                      yaml:"billingMode"                      mapstructure:"billingMode"            validate:"required,oneof=pay-per-request provisioned"`
	ReadCapacity           int                      `json:"readCapacity,omitempty"           yaml:"readCapacity,omitempty"           mapstructure:"readCapacity"           validate:"omitempty,min=1"`
	WriteCapacity          int                      `json:"writeCapacity,omitempty"          yaml:"writeCapacity,omitempty"          mapstructure:"writeCapacity"          validate:"omitempty,min=1"`
	Autoscaling            AutoscalingConfig        `json:"autoscaling"                      yaml:"autoscaling"                      mapstructure:"autoscaling"`
	AttributeDefinitions   []KeyAttribute           `json:"attributeDefinitions"             yaml:"attributeDefinitions"             mapstructure:"attributeDefinitions"`
	GlobalSecondaryIndexes []GlobalSecondaryIndex   `json:"globalSecondaryIndexes,omitempty" yaml:"globalSecondaryIndexes,omitempty" mapstructure:"globalSecondaryIndexes" validate:"max=20,dive"`
	LocalSecondaryIndexes  []LocalSecondaryIndex    `json:"localSecondaryIndexes,omitempty"  yaml:"localSecondaryIndexes,omitempty"  mapstructure:"localSecondaryIndexes"  validate:"max=5,dive"`
	TTL                    TTLConfig                `json:"ttl"                              yaml:"ttl"                              mapstructure:"ttl"`
	Encryption             EncryptionConfig         `json:"encryption"                       yaml:"encryption"                       mapstructure:"encryption"`
	PointInTimeRecovery    bool                     `json:"pointInTimeRecovery"              yaml:"pointInTimeRecovery"              mapstructure:"pointInTimeRecovery"`
	Backup                 BackupConfig             `json:"backup"                           yaml:"backup"                           mapstructure:"backup"`
	Monitoring             MonitoringConfig         `json:"monitoring"                       yaml:"monitoring"                       mapstructure:"monitoring"`
	DeletionProtection     bool                     `json:"deletionProtection"               yaml:"deletionProtection"               mapstructure:"deletionProtection"`
	Environment            core.Environment         `json:"environment"                      yaml:"environment"                      mapstructure:"environment"            validate:"required"`
	ComplianceFramework    core.ComplianceFramework `json:"complianceFramework"              yaml:"complianceFramework"              mapstructure:"complianceFramework"    validate:"required"`
}

// KeyAttribute names one key attribute and its primitive type.
type KeyAttribute struct {
	Name string `json:"name" yaml:"name" mapstructure:"name" validate:"required"`
	Type string `json:"type" yaml:"type" mapstructure:"type" validate:"required,oneof=string number binary"`
}

// AutoscalingConfig bounds provisioned-capacity autoscaling. Bounds left
// unset are expanded from the table's provisioned capacity during
// normalization.
type AutoscalingConfig struct {
	Enabled           bool `json:"enabled"                 yaml:"enabled"                 mapstructure:"enabled"`
	MinCapacity       int  `json:"minCapacity,omitempty"   yaml:"minCapacity,omitempty"   mapstructure:"minCapacity"       validate:"omitempty,min=1"`
	MaxCapacity       int  `json:"maxCapacity,omitempty"   yaml:"maxCapacity,omitempty"   mapstructure:"maxCapacity"       validate:"omitempty,min=1"`
	TargetUtilization int  `json:"targetUtilization"       yaml:"targetUtilization"       mapstructure:"targetUtilization" validate:"omitempty,min=1,max=100"`
}

// GlobalSecondaryIndex projects the table under an alternative key. Indexes
// without explicit throughput inherit the table's provisioned capacity.
type GlobalSecondaryIndex struct {
	Name             string        `json:"name"                       yaml:"name"                       mapstructure:"name"             validate:"required"`
	PartitionKey     KeyAttribute  `json:"partitionKey"               yaml:"partitionKey"               mapstructure:"partitionKey"     validate:"required"`
	SortKey          *KeyAttribute `json:"sortKey,omitempty"          yaml:"sortKey,omitempty"          mapstructure:"sortKey"`
	ProjectionType   string        `json:"projectionType"             yaml:"projectionType"             mapstructure:"projectionType"   validate:"omitempty,oneof=ALL KEYS_ONLY INCLUDE"`
	NonKeyAttributes []string      `json:"nonKeyAttributes,omitempty" yaml:"nonKeyAttributes,omitempty" mapstructure:"nonKeyAttributes"`
	ReadCapacity     int           `json:"readCapacity,omitempty"     yaml:"readCapacity,omitempty"     mapstructure:"readCapacity"     validate:"omitempty,min=1"`
	WriteCapacity    int           `json:"writeCapacity,omitempty"    yaml:"writeCapacity,omitempty"    mapstructure:"writeCapacity"    validate:"omitempty,min=1"`
}

// LocalSecondaryIndex shares the table partition key with an alternative
// sort key. Only valid on tables that declare a sort key of their own.
type LocalSecondaryIndex struct {
	Name             string       `json:"name"                       yaml:"name"                       mapstructure:"name"           validate:"required"`
	SortKey          KeyAttribute `json:"sortKey"                    yaml:"sortKey"                    mapstructure:"sortKey"        validate:"required"`
	ProjectionType   string       `json:"projectionType"             yaml:"projectionType"             mapstructure:"projectionType" validate:"omitempty,oneof=ALL KEYS_ONLY INCLUDE"`
	NonKeyAttributes []string     `json:"nonKeyAttributes,omitempty" yaml:"nonKeyAttributes,omitempty" mapstructure:"nonKeyAttributes"`
}

// TTLConfig enables item expiry on a named attribute.
type TTLConfig struct {
	Enabled       bool   `json:"enabled"                 yaml:"enabled"                 mapstructure:"enabled"`
	AttributeName string `json:"attributeName,omitempty" yaml:"attributeName,omitempty" mapstructure:"attributeName"`
}

// EncryptionConfig selects server-side encryption. The KMS key ARN is
// optional under customer-managed encryption; synthesis provisions a key
// when none is given.
type EncryptionConfig struct {
	Type      string `json:"type"                yaml:"type"                mapstructure:"type"      validate:"required,oneof=aws-managed customer-managed"`
	KMSKeyArn string `json:"kmsKeyArn,omitempty" yaml:"kmsKeyArn,omitempty" mapstructure:"kmsKeyArn"`
}

// BackupConfig controls scheduled backups and their retention.
type BackupConfig struct {
	Enabled       bool `json:"enabled"       yaml:"enabled"       mapstructure:"enabled"`
	RetentionDays int  `json:"retentionDays" yaml:"retentionDays" mapstructure:"retentionDays" validate:"omitempty,min=1"`
}

// MonitoringConfig controls table observability features.
type MonitoringConfig struct {
	Enabled             bool `json:"enabled"             yaml:"enabled"             mapstructure:"enabled"`
	ContributorInsights bool `json:"contributorInsights" yaml:"contributorInsights" mapstructure:"contributorInsights"`
}

// BillingMode values.
const (
	BillingPayPerRequest = "pay-per-request"
	BillingProvisioned   = "provisioned"
)

// EncryptionConfig type values.
const (
	EncryptionAWSManaged      = "aws-managed"
	EncryptionCustomerManaged = "customer-managed"
)
