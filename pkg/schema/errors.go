// SPDX-License-Identifier: Apache-2.0

package schema

import "fmt"

type ErrSchemaNotFound struct {
	IndexName string
}

func (e ErrSchemaNotFound) Error() string {
	return fmt.Sprintf("schema for index [%s] not found", e.IndexName)
}

type ErrTypeInvalid struct {
	Input string
}

func (e ErrTypeInvalid) Error() string {
	return fmt.Sprintf("unsupported physical type: %s", e.Input)
}

type ErrInvalidMapping struct {
	Details string
}

func (e ErrInvalidMapping) Error() string {
	return fmt.Sprintf("invalid mapping document: %s", e.Details)
}
