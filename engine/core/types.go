package core

// -----------------------------------------------------------------------------
// Component Type
// -----------------------------------------------------------------------------

// ComponentType discriminates which builder and schema a component spec binds to.
type ComponentType string

const (
	ComponentDeploymentBundle ComponentType = "deployment-bundle"
	ComponentDynamoDBTable    ComponentType = "dynamodb-table"
)

func (c ComponentType) String() string {
	return string(c)
}

// -----------------------------------------------------------------------------
// Environment
// -----------------------------------------------------------------------------

// Environment is the deployment environment a component resolves against.
type Environment string

const (
	EnvDevelopment Environment = "dev"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "prod"
)

func (e Environment) String() string {
	return string(e)
}

// KnownEnvironments returns the recognized environments in ascending
// promotion order.
func KnownEnvironments() []Environment {
	return []Environment{EnvDevelopment, EnvStaging, EnvProduction}
}

// IsKnown reports whether e is one of the recognized environments.
// Unrecognized values contribute no environment defaults; schema
// validation rejects them later.
func (e Environment) IsKnown() bool {
	switch e {
	case EnvDevelopment, EnvStaging, EnvProduction:
		return true
	}
	return false
}

// -----------------------------------------------------------------------------
// Compliance Framework
// -----------------------------------------------------------------------------

// ComplianceFramework selects the compliance defaults layer.
type ComplianceFramework string

const (
	ComplianceCommercial      ComplianceFramework = "commercial"
	ComplianceFedRAMPModerate ComplianceFramework = "fedramp-moderate"
	ComplianceFedRAMPHigh     ComplianceFramework = "fedramp-high"
	ComplianceISO27001        ComplianceFramework = "iso27001"
	ComplianceSOC2            ComplianceFramework = "soc2"
)

func (f ComplianceFramework) String() string {
	return string(f)
}

// KnownComplianceFrameworks returns every recognized framework.
func KnownComplianceFrameworks() []ComplianceFramework {
	return []ComplianceFramework{
		ComplianceCommercial,
		ComplianceFedRAMPModerate,
		ComplianceFedRAMPHigh,
		ComplianceISO27001,
		ComplianceSOC2,
	}
}

func (f ComplianceFramework) IsKnown() bool {
	switch f {
	case ComplianceCommercial, ComplianceFedRAMPModerate, ComplianceFedRAMPHigh,
		ComplianceISO27001, ComplianceSOC2:
		return true
	}
	return false
}
