/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"io"

	"genart/internal/render"
	"genart/internal/vector"
)

// WritePDF renders canvas as a single-page PDF to w. The page is sized in
// points, one point per device unit.
func WritePDF(w io.Writer, canvas *vector.Canvas, opt render.PDFOptions) error {
	r, err := render.NewPDF(opt)
	if err != nil {
		return err
	}
	doc, err := render.Draw(canvas, r)
	if err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	if _, err := w.Write(doc); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
