// Package pom rewrites dependency, parent and plugin versions in a pom.xml
// without disturbing any other byte of the file.
//
// A run goes through these steps:
//
//  1. [ReadManifest] decodes the file, normalizes line endings and parses it
//     into an [xmltree.Document]. [ExtractBoundaries] splits the text into
//     the prolog (intro), the project element and the epilog (outro).
//  2. [OriginalVersions] and [TargetVersions] build the two version maps
//     from the project snapshot and the tracked artifacts.
//  3. [Rewriter.Rewrite] walks the project element and every profile and
//     classifies each version with [Decide], editing only text through
//     [RewriteValue].
//  4. [PrepareRoot] fixes up namespace declarations, [Envelope.Bytes]
//     re-emits intro + project + outro in the original encoding, [Verify]
//     re-parses the result and [WriteFile] replaces the file atomically.
//
// Any error aborts the run before the file is written.
package pom
