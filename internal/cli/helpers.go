package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"sigs.k8s.io/yaml"
)

const (
	AssetKind  = "asset"
	ReviewKind = "review"

	jsonFormat = "json"
	yamlFormat = "yaml"
)

var (
	pluralKinds = map[string]string{
		AssetKind:  "assets",
		ReviewKind: "reviews",
	}

	legalOutputTypes = []string{jsonFormat, yamlFormat}
)

// parseAndValidateKindId splits TYPE or TYPE/ID. Reviews are always listed per asset, so
// reviews/ID names the asset whose history is read.
func parseAndValidateKindId(arg string) (string, uint, error) {
	kind, rawID, _ := strings.Cut(arg, "/")
	kind = singular(kind)
	if _, ok := pluralKinds[kind]; !ok {
		return "", 0, fmt.Errorf("invalid resource kind: %s", kind)
	}
	if rawID == "" {
		if kind == ReviewKind {
			return "", 0, fmt.Errorf("reviews are read per asset: use %s/ASSET_ID", plural(ReviewKind))
		}
		return kind, 0, nil
	}
	id, err := parseAssetID(rawID)
	if err != nil {
		return "", 0, err
	}
	return kind, id, nil
}

func parseAssetID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid asset id %q", arg)
	}
	return uint(id), nil
}

func singular(kind string) string {
	for singular, plural := range pluralKinds {
		if kind == plural {
			return singular
		}
	}
	return kind
}

func plural(kind string) string {
	return pluralKinds[kind]
}

func validateOutput(output string) error {
	if len(output) > 0 && !slices.Contains(legalOutputTypes, output) {
		return fmt.Errorf("output format must be one of %s", strings.Join(legalOutputTypes, ", "))
	}
	return nil
}

// printStructured writes v as json or yaml. It reports false for the table format.
func printStructured(w io.Writer, output string, v any) (bool, error) {
	var (
		marshalled []byte
		err        error
	)
	switch output {
	case jsonFormat:
		marshalled, err = json.Marshal(v)
	case yamlFormat:
		marshalled, err = yaml.Marshal(v)
	default:
		return false, nil
	}
	if err != nil {
		return true, fmt.Errorf("marshalling resource: %w", err)
	}
	fmt.Fprintf(w, "%s\n", strings.TrimSuffix(string(marshalled), "\n"))
	return true, nil
}

func derefInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func derefUint(v *uint) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatUint(uint64(*v), 10)
}
