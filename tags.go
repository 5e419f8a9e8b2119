package traek

// AddTag appends a tag to a node. Duplicate tags are ignored without
// notifying; unknown IDs are ignored.
func (e *Engine) AddTag(id, tag string) {
	node := e.Node(id)
	if node == nil {
		return
	}
	for _, t := range node.Metadata.Tags {
		if t == tag {
			return
		}
	}
	node.Metadata.Tags = append(node.Metadata.Tags, tag)
	e.notify()
}

// RemoveTag deletes a tag from a node. Unlike AddTag, it notifies even
// when the tag was absent.
func (e *Engine) RemoveTag(id, tag string) {
	node := e.Node(id)
	if node == nil {
		return
	}
	kept := node.Metadata.Tags[:0:0]
	for _, t := range node.Metadata.Tags {
		if t != tag {
			kept = append(kept, t)
		}
	}
	node.Metadata.Tags = kept
	e.notify()
}

// Tags returns a node's tags, nil for unknown IDs.
func (e *Engine) Tags(id string) []string {
	node := e.Node(id)
	if node == nil {
		return nil
	}
	return node.Metadata.Tags
}
