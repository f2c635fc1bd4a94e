package query

import (
	"fmt"
	"strings"
)

// arnComponents is the parsed form of an AWS-style ARN:
// arn:partition:service:region:account-id:resource[/resource-type].
// See http://docs.aws.amazon.com/general/latest/gr/aws-arns-and-namespaces.html
type arnComponents struct {
	Partition    string
	Service      string
	Region       string
	Account      string
	Resource     string
	ResourceType string
}

// parseArn splits arn into its base Arn (with any "#<entry-id>" catalog-key
// suffix removed), that entry id if present, and the parsed ARN structure.
// It returns an InvalidArea QueryError if arn isn't a well-formed six-part
// ARN or if its service isn't "geo" — the location-service geofence
// collections this module resolves Arn areas against.
func parseArn(arn string) (base string, entryID string, hasEntry bool, components arnComponents, err error) {
	base = arn
	if i := strings.IndexByte(arn, '#'); i >= 0 {
		base = arn[:i]
		entryID = arn[i+1:]
		hasEntry = true
	}

	parts := strings.SplitN(base, ":", 6)
	if len(parts) != 6 || parts[0] != "arn" {
		return "", "", false, arnComponents{}, &QueryError{
			Kind:    InvalidArea,
			Message: fmt.Sprintf("Malformed Arn: %s", arn),
		}
	}

	components = arnComponents{
		Partition: parts[1],
		Service:   parts[2],
		Region:    parts[3],
		Account:   parts[4],
		Resource:  parts[5],
	}
	if i := strings.IndexByte(components.Resource, '/'); i >= 0 {
		components.ResourceType, components.Resource = components.Resource[:i], components.Resource[i+1:]
	} else if i := strings.IndexByte(components.Resource, ':'); i >= 0 {
		components.ResourceType, components.Resource = components.Resource[:i], components.Resource[i+1:]
	}

	if components.Service != "geo" {
		return "", "", false, arnComponents{}, &QueryError{
			Kind:    InvalidArea,
			Message: fmt.Sprintf("Unrecognized service: %s", components.Service),
		}
	}

	return base, entryID, hasEntry, components, nil
}
