// renderer/shaders.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

// Uniform location 0 holds the projection matrix and texture unit 0 the
// bound texture; render.go binds to exactly these slots.

const vertexShaderSource = `#version 450

layout(location = 0) in vec2 v_pos;
layout(location = 1) in vec2 v_uv;
layout(location = 2) in vec4 v_color;

layout(location = 0) uniform mat4 u_transform;

layout(location = 0) out vec2 a_uv;
layout(location = 1) out vec4 a_color;

void main() {
    a_uv = v_uv;
    a_color = v_color;
    gl_Position = u_transform * vec4(v_pos, 0.0, 1.0);
}
`

const fragmentShaderSource = `#version 450

layout(location = 0) in vec2 a_uv;
layout(location = 1) in vec4 a_color;

layout(binding = 0) uniform sampler2D u_texture;

layout(location = 0) out vec4 f_color;

void main() {
    f_color = a_color * texture(u_texture, a_uv);
}
`
