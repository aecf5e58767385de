package manifest

const (
	// PublishBlockerScript is the npm hook that stops a direct publish from
	// the project root.
	PublishBlockerScript = "prepublishOnly"

	// PublishBlocker is the command installed as PublishBlockerScript.
	PublishBlocker = `echo "Do not run publish directly, run publisher" && exit 1`

	// PublisherScript is the script name that runs publisher.
	PublisherScript = "publisher"
)

// InitChanges reports which scripts PrepareForPublisher added.
type InitChanges struct {
	AddedBlocker bool
	AddedScript  bool
}

// Modified reports whether the manifest needs to be written back.
func (c InitChanges) Modified() bool {
	return c.AddedBlocker || c.AddedScript
}

// PrepareForPublisher adds the publish blocker and the publisher script
// when they are missing. Existing entries are never overwritten.
func PrepareForPublisher(m *Manifest) InitChanges {
	if m.Scripts == nil {
		m.Scripts = NewOrderedMap[string]()
	}

	var changes InitChanges
	if !m.HasScript(PublishBlockerScript) {
		m.Scripts.Set(PublishBlockerScript, PublishBlocker)
		changes.AddedBlocker = true
	}
	if !m.HasScript(PublisherScript) {
		m.Scripts.Set(PublisherScript, "publisher")
		changes.AddedScript = true
	}
	return changes
}
