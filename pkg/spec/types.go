package spec

// InstallationSpec is the top-level description of a dwelling's sanitary
// and heating installations. Each domain section is optional.
type InstallationSpec struct {
	SpecVersion string        `yaml:"spec_version" json:"spec_version" validate:"required"`
	Project     ProjectInfo   `yaml:"project" json:"project"`
	Water       *WaterSpec    `yaml:"water,omitempty" json:"water,omitempty"`
	Drainage    *DrainageSpec `yaml:"drainage,omitempty" json:"drainage,omitempty"`
	Heating     *HeatingSpec  `yaml:"heating,omitempty" json:"heating,omitempty"`
}

// ProjectInfo identifies the job the installation belongs to.
type ProjectInfo struct {
	Name        string `yaml:"name" json:"name"`
	Client      string `yaml:"client,omitempty" json:"client,omitempty"`
	SiteAddress string `yaml:"site_address,omitempty" json:"site_address,omitempty"`
}

// Room is a space with fixtures, used by the water and drainage networks.
type Room struct {
	ID       string `yaml:"id" json:"id" validate:"required"`
	Name     string `yaml:"name" json:"name"`
	Floor    int    `yaml:"floor" json:"floor" validate:"gte=0"`
	Fixtures Counts `yaml:"fixtures,omitempty" json:"fixtures,omitempty"`
}

