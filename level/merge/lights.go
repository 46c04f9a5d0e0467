package merge

import "github.com/mogaika/levelport/level"

// ImportLights appends copies of every source light to dst with their group
// shifted past the destination groups, and returns that shift. Imported
// instances add it to their light group through Options.LightGroupOffset.
func ImportLights(src, dst *level.Container) uint16 {
	offset := uint16(dst.LightGroupCount())
	for _, l := range src.Lights {
		imported := l.Clone()
		imported.Group += offset
		dst.Lights = append(dst.Lights, imported)
	}
	return offset
}
