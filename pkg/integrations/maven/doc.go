// Package maven reads artifact metadata from remote Maven repositories.
//
// Every Maven repository serves a maven-metadata.xml per artifact that lists
// its published versions:
//
//	<metadata>
//	  <groupId>org.apache.commons</groupId>
//	  <artifactId>commons-lang3</artifactId>
//	  <versioning>
//	    <latest>3.14.0</latest>
//	    <release>3.14.0</release>
//	    <versions>
//	      <version>3.12.0</version>
//	      <version>3.13.0</version>
//	      <version>3.14.0</version>
//	    </versions>
//	  </versioning>
//	</metadata>
//
// Usage:
//
//	client := maven.NewClient(c, time.Hour)
//	meta, err := client.Versions(ctx, integrations.CentralURL, coord, false)
//	if errors.Is(err, integrations.ErrNotFound) {
//	    // not published in this repository
//	}
package maven
